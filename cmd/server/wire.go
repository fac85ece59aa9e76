//go:build wireinject

package main

import (
	"github.com/harshrajput1506/chatgpt-clone/internal/domain"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/routes"

	"github.com/google/wire"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
