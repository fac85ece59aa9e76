package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshrajput1506/chatgpt-clone/internal/config"
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

type stubChatRepo struct {
	chats     map[string]*chat.Chat
	updateErr error
}

func newStubChatRepo(chats ...*chat.Chat) *stubChatRepo {
	repo := &stubChatRepo{chats: make(map[string]*chat.Chat)}
	for _, c := range chats {
		repo.chats[c.PublicID] = c
	}
	return repo
}

func (r *stubChatRepo) Create(ctx context.Context, c *chat.Chat) error {
	r.chats[c.PublicID] = c
	return nil
}

func (r *stubChatRepo) FindByFilter(ctx context.Context, filter chat.ChatFilter) ([]*chat.Chat, error) {
	var out []*chat.Chat
	for _, c := range r.chats {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubChatRepo) Count(ctx context.Context, filter chat.ChatFilter) (int64, error) {
	return int64(len(r.chats)), nil
}

func (r *stubChatRepo) FindByID(ctx context.Context, id uint) (*chat.Chat, error) {
	for _, c := range r.chats {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "chat not found", nil, "")
}

func (r *stubChatRepo) FindByPublicID(ctx context.Context, publicID string) (*chat.Chat, error) {
	if c, ok := r.chats[publicID]; ok {
		return c, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "chat not found", nil, "")
}

func (r *stubChatRepo) FindByPublicIDWithMessages(ctx context.Context, publicID string) (*chat.Chat, error) {
	return r.FindByPublicID(ctx, publicID)
}

func (r *stubChatRepo) Update(ctx context.Context, c *chat.Chat) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.chats[c.PublicID] = c
	return nil
}

func (r *stubChatRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

type stubMessageRepo struct {
	messages  []*chat.Message // kept in chronological order
	listErr   error
	createErr error
	created   []*chat.Message
}

func (r *stubMessageRepo) Create(ctx context.Context, m *chat.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, m)
	r.messages = append(r.messages, m)
	return nil
}

func (r *stubMessageRepo) FindByPublicID(ctx context.Context, publicID string) (*chat.Message, error) {
	for _, m := range r.messages {
		if m.PublicID == publicID {
			return m, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "message not found", nil, "")
}

func (r *stubMessageRepo) ListByChat(ctx context.Context, chatID uint, order chat.SortOrder, limit, offset int) ([]*chat.Message, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var inChat []*chat.Message
	for _, m := range r.messages {
		if m.ChatID == chatID {
			inChat = append(inChat, m)
		}
	}
	if order == chat.OrderDesc {
		reversed := make([]*chat.Message, len(inChat))
		for i, m := range inChat {
			reversed[len(inChat)-1-i] = m
		}
		inChat = reversed
	}
	if offset > 0 {
		if offset >= len(inChat) {
			return nil, nil
		}
		inChat = inChat[offset:]
	}
	if limit > 0 && limit < len(inChat) {
		inChat = inChat[:limit]
	}
	return inChat, nil
}

func (r *stubMessageRepo) CountByChat(ctx context.Context, chatID uint) (int64, error) {
	var n int64
	for _, m := range r.messages {
		if m.ChatID == chatID {
			n++
		}
	}
	return n, nil
}

func (r *stubMessageRepo) CountByChatAndRole(ctx context.Context, chatID uint, role chat.MessageRole) (int64, error) {
	var n int64
	for _, m := range r.messages {
		if m.ChatID == chatID && m.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *stubMessageRepo) DeleteFrom(ctx context.Context, chatID uint, from time.Time) (int64, error) {
	var kept []*chat.Message
	var deleted int64
	for _, m := range r.messages {
		if m.ChatID == chatID && !m.CreatedAt.Before(from) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return deleted, nil
}

func (r *stubMessageRepo) ListBefore(ctx context.Context, chatID uint, before time.Time) ([]*chat.Message, error) {
	var out []*chat.Message
	for _, m := range r.messages {
		if m.ChatID == chatID && m.CreatedAt.Before(before) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMessageRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

type stubClient struct {
	configured  bool
	response    *openai.ChatCompletionResponse
	err         error
	deltas      []StreamDelta
	streamErr   error
	lastRequest openai.ChatCompletionRequest
	calls       int
}

func (c *stubClient) IsConfigured() bool {
	return c.configured
}

func (c *stubClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	c.calls++
	c.lastRequest = req
	if c.err != nil {
		return nil, c.err
	}
	return c.response, nil
}

func (c *stubClient) StreamChatCompletion(ctx context.Context, req openai.ChatCompletionRequest, onDelta func(StreamDelta) error) error {
	c.calls++
	c.lastRequest = req
	for _, delta := range c.deltas {
		if err := onDelta(delta); err != nil {
			return err
		}
	}
	return c.streamErr
}

type recordingEmitter struct {
	chunks      []string
	models      []string
	completed   bool
	messageID   string
	fullContent string
	report      ContextReport
}

func (e *recordingEmitter) Chunk(content, model string) error {
	e.chunks = append(e.chunks, content)
	e.models = append(e.models, model)
	return nil
}

func (e *recordingEmitter) Complete(messageID, fullContent string, report ContextReport) error {
	e.completed = true
	e.messageID = messageID
	e.fullContent = fullContent
	e.report = report
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultModel:       "gpt-4o-mini",
		TitleModel:         "gpt-3.5-turbo",
		DefaultMaxTokens:   1000,
		DefaultTemperature: 0.7,
	}
}

func seedChat(id uint, publicID string) *chat.Chat {
	c := chat.NewChat(publicID, "user-1", "")
	c.ID = id
	return c
}

func seedMessage(chatID uint, publicID string, role chat.MessageRole, content string, at time.Time) *chat.Message {
	m := chat.NewMessage(publicID, chatID, role, content, nil)
	m.CreatedAt = at
	return m
}

func completionResponse(model, content string) *openai.ChatCompletionResponse {
	return &openai.ChatCompletionResponse{
		Model: model,
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
		Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20},
	}
}

func TestGenerateUnconfiguredBackend(t *testing.T) {
	svc := NewService(newStubChatRepo(), &stubMessageRepo{}, &stubClient{configured: false}, testConfig())

	_, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnavailable))
}

func TestGenerateChatNotFound(t *testing.T) {
	svc := NewService(newStubChatRepo(), &stubMessageRepo{}, &stubClient{configured: true}, testConfig())

	_, err := svc.Generate(context.Background(), "chat_missing", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestGenerateEmptyConversation(t *testing.T) {
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	svc := NewService(chats, &stubMessageRepo{}, &stubClient{configured: true}, testConfig())

	_, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestGenerateLastTurnMustBeUser(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "hello", base),
		seedMessage(1, "msg_2", chat.MessageRoleAssistant, "hi there", base.Add(time.Minute)),
	}}
	svc := NewService(chats, messages, &stubClient{configured: true}, testConfig())

	_, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestGeneratePersistsExactlyOneAssistantMessage(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "what is Go?", base),
	}}
	client := &stubClient{configured: true, response: completionResponse("gpt-4o-mini", "Go is a programming language.")}
	svc := NewService(chats, messages, client, testConfig())

	result, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{})

	require.NoError(t, err)
	require.Len(t, messages.created, 1)
	persisted := messages.created[0]
	assert.Equal(t, chat.MessageRoleAssistant, persisted.Role)
	assert.Equal(t, "Go is a programming language.", persisted.Content)
	assert.Regexp(t, `^msg_[0-9a-z]{16}$`, persisted.PublicID)
	assert.Equal(t, persisted.PublicID, result.Message.PublicID)
	assert.Equal(t, "chat_abc", result.Message.ChatPublicID)
	assert.Equal(t, "gpt-4o-mini", result.Model)
	assert.Equal(t, 12, result.Usage.PromptTokens)
	assert.Equal(t, 1, result.Context.MessagesUsed)
	assert.False(t, result.Context.Truncated)
}

func TestGenerateSucceedsWhenTimestampBumpFails(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	chats.updateErr = errors.New("connection reset")
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "what is Go?", base),
	}}
	client := &stubClient{configured: true, response: completionResponse("gpt-4o-mini", "Go is a programming language.")}
	svc := NewService(chats, messages, client, testConfig())

	result, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{})

	require.NoError(t, err)
	require.Len(t, messages.created, 1)
	assert.Equal(t, "Go is a programming language.", result.Message.Content)
}

func TestGenerateAppliesOptionDefaults(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "hi", base),
	}}
	client := &stubClient{configured: true, response: completionResponse("gpt-4o-mini", "hello")}
	svc := NewService(chats, messages, client, testConfig())

	_, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.lastRequest.Model)
	assert.Equal(t, 1000, client.lastRequest.MaxTokens)
	assert.Equal(t, float32(0.7), client.lastRequest.Temperature)
}

func TestGenerateHonorsExplicitOptions(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "hi", base),
	}}
	client := &stubClient{configured: true, response: completionResponse("gpt-4o", "hello")}
	svc := NewService(chats, messages, client, testConfig())

	temp := float32(0)
	_, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{
		Model:       "gpt-4o",
		MaxTokens:   200,
		Temperature: &temp,
	})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", client.lastRequest.Model)
	assert.Equal(t, 200, client.lastRequest.MaxTokens)
	assert.Equal(t, float32(0), client.lastRequest.Temperature)
}

func TestGenerateUpstreamFailurePersistsNothing(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "hi", base),
	}}
	client := &stubClient{configured: true, err: errors.New("upstream exploded")}
	svc := NewService(chats, messages, client, testConfig())

	_, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	assert.Empty(t, messages.created)
}

func TestGenerateEmptyChoicesPersistsNothing(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "hi", base),
	}}
	client := &stubClient{configured: true, response: &openai.ChatCompletionResponse{Model: "gpt-4o-mini"}}
	svc := NewService(chats, messages, client, testConfig())

	_, err := svc.Generate(context.Background(), "chat_abc", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	assert.Empty(t, messages.created)
}

func TestGenerateStreamChunksConcatenateToPersistedContent(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "say hello", base),
	}}
	client := &stubClient{configured: true, deltas: []StreamDelta{
		{Content: "Hel", Model: "gpt-4o-mini"},
		{Content: "lo", Model: "gpt-4o-mini"},
		{Content: " world", Model: "gpt-4o-mini"},
	}}
	svc := NewService(chats, messages, client, testConfig())
	emitter := &recordingEmitter{}

	err := svc.GenerateStream(context.Background(), "chat_abc", GenerateOptions{}, emitter)

	require.NoError(t, err)
	assert.True(t, client.lastRequest.Stream)
	assert.Equal(t, []string{"Hel", "lo", " world"}, emitter.chunks)
	require.Len(t, messages.created, 1)
	assert.Equal(t, "Hello world", messages.created[0].Content)
	assert.True(t, emitter.completed)
	assert.Equal(t, "Hello world", emitter.fullContent)
	assert.Equal(t, messages.created[0].PublicID, emitter.messageID)
	assert.Equal(t, 1, emitter.report.MessagesUsed)
}

func TestGenerateStreamUpstreamFailurePersistsNothing(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "say hello", base),
	}}
	client := &stubClient{
		configured: true,
		deltas:     []StreamDelta{{Content: "partial", Model: "gpt-4o-mini"}},
		streamErr:  errors.New("connection reset"),
	}
	svc := NewService(chats, messages, client, testConfig())
	emitter := &recordingEmitter{}

	err := svc.GenerateStream(context.Background(), "chat_abc", GenerateOptions{}, emitter)

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	assert.Empty(t, messages.created)
	assert.False(t, emitter.completed)
}

func TestRegenerateRejectsForeignMessage(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"), seedChat(2, "chat_other"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(2, "msg_foreign", chat.MessageRoleAssistant, "from another chat", base),
	}}
	svc := NewService(chats, messages, &stubClient{configured: true}, testConfig())

	_, err := svc.Regenerate(context.Background(), "chat_abc", "msg_foreign", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestRegenerateRejectsUserMessage(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_1", chat.MessageRoleUser, "hello", base),
	}}
	svc := NewService(chats, messages, &stubClient{configured: true}, testConfig())

	_, err := svc.Regenerate(context.Background(), "chat_abc", "msg_1", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	require.Len(t, messages.messages, 1)
}

func TestRegenerateTruncatesSuffixAndPersistsReplacement(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_u1", chat.MessageRoleUser, "first question", base),
		seedMessage(1, "msg_a1", chat.MessageRoleAssistant, "first answer", base.Add(time.Minute)),
		seedMessage(1, "msg_u2", chat.MessageRoleUser, "second question", base.Add(2*time.Minute)),
		seedMessage(1, "msg_a2", chat.MessageRoleAssistant, "stale answer", base.Add(3*time.Minute)),
	}}
	client := &stubClient{configured: true, response: completionResponse("gpt-4o-mini", "fresh answer")}
	svc := NewService(chats, messages, client, testConfig())

	result, err := svc.Regenerate(context.Background(), "chat_abc", "msg_a2", GenerateOptions{})

	require.NoError(t, err)
	require.Len(t, messages.created, 1)
	assert.Equal(t, "fresh answer", messages.created[0].Content)

	// the stale suffix is gone and only the replacement was appended
	var publicIDs []string
	for _, m := range messages.messages {
		publicIDs = append(publicIDs, m.PublicID)
	}
	assert.Equal(t, []string{"msg_u1", "msg_a1", "msg_u2", messages.created[0].PublicID}, publicIDs)

	// the request was built from the remaining history only
	require.Len(t, client.lastRequest.Messages, 4) // system + three remaining turns
	assert.Equal(t, "second question", client.lastRequest.Messages[3].Content)

	assert.Equal(t, 3, result.Context.MessagesUsed)
	assert.Equal(t, 3*roughTokensPerMessage, result.Context.EstimatedTokens)
	assert.False(t, result.Context.Truncated)
	require.NotNil(t, result.Chat)
	assert.Equal(t, "chat_abc", result.Chat.PublicID)
}

func TestRegenerateRequiresUserTurnBeforeTarget(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_a0", chat.MessageRoleAssistant, "welcome", base),
		seedMessage(1, "msg_a1", chat.MessageRoleAssistant, "stale", base.Add(time.Minute)),
	}}
	svc := NewService(chats, messages, &stubClient{configured: true}, testConfig())

	_, err := svc.Regenerate(context.Background(), "chat_abc", "msg_a1", GenerateOptions{})

	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestRegenerateStreamEmitsAndPersists(t *testing.T) {
	base := time.Now()
	chats := newStubChatRepo(seedChat(1, "chat_abc"))
	messages := &stubMessageRepo{messages: []*chat.Message{
		seedMessage(1, "msg_u1", chat.MessageRoleUser, "question", base),
		seedMessage(1, "msg_a1", chat.MessageRoleAssistant, "stale answer", base.Add(time.Minute)),
	}}
	client := &stubClient{configured: true, deltas: []StreamDelta{
		{Content: "better ", Model: "gpt-4o-mini"},
		{Content: "answer", Model: "gpt-4o-mini"},
	}}
	svc := NewService(chats, messages, client, testConfig())
	emitter := &recordingEmitter{}

	err := svc.RegenerateStream(context.Background(), "chat_abc", "msg_a1", GenerateOptions{}, emitter)

	require.NoError(t, err)
	assert.Equal(t, []string{"better ", "answer"}, emitter.chunks)
	require.Len(t, messages.created, 1)
	assert.Equal(t, "better answer", messages.created[0].Content)
	assert.True(t, emitter.completed)
	assert.Equal(t, messages.created[0].PublicID, emitter.messageID)
}
