package session

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"askmydata/adapters/excel"
	"askmydata/domain/core"
	"askmydata/domain/interaction"
	"askmydata/domain/session"
	"askmydata/internal"
	"askmydata/internal/errors"
	"askmydata/internal/qa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInteractionLog is a testify mock of ports.InteractionLog
type MockInteractionLog struct {
	mock.Mock
}

func (m *MockInteractionLog) Append(ctx context.Context, question, answer string) (*interaction.Record, error) {
	args := m.Called(ctx, question, answer)
	rec, _ := args.Get(0).(*interaction.Record)
	return rec, args.Error(1)
}

func (m *MockInteractionLog) LoadAll(ctx context.Context) ([]interaction.Record, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]interaction.Record)
	return records, args.Error(1)
}

func (m *MockInteractionLog) Close() error {
	return m.Called().Error(0)
}

const campaignsCSV = "campaign,clicks,revenue\nA,1,10\nB,2,20\nA,3,30\n"

func newInteractor(log *MockInteractionLog) *Interactor {
	return NewInteractor(excel.NewDataReader(), log, internal.NewLogger(internal.LogLevelError))
}

func TestInteractor_Upload(t *testing.T) {
	it := newInteractor(&MockInteractionLog{})
	state := session.NewState(core.NewSessionID())

	state, err := it.Upload(state, "campaigns.csv", []byte(campaignsCSV))
	require.NoError(t, err)
	require.True(t, state.HasDataset())
	assert.Equal(t, 3, state.Dataset.Len())
	require.NotNil(t, state.Notice)
	assert.Equal(t, NoticeInfo, state.Notice.Level)
	assert.Equal(t, "Loaded campaigns.csv: 3 rows, 3 columns", state.Notice.Text)
}

func TestInteractor_UploadFailureKeepsDataset(t *testing.T) {
	it := newInteractor(&MockInteractionLog{})
	state, err := it.Upload(session.NewState(core.NewSessionID()), "campaigns.csv", []byte(campaignsCSV))
	require.NoError(t, err)
	previous := state.Dataset

	state, err = it.Upload(state, "broken.csv", []byte("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	assert.Same(t, previous, state.Dataset)
	require.NotNil(t, state.Notice)
	assert.Equal(t, NoticeError, state.Notice.Level)
	assert.Contains(t, state.Notice.Text, "broken.csv")
}

func TestInteractor_AskAppendsToLogAndTranscript(t *testing.T) {
	ctx := context.Background()
	log := &MockInteractionLog{}
	it := newInteractor(log)

	state, err := it.Upload(session.NewState(core.NewSessionID()), "campaigns.csv", []byte(campaignsCSV))
	require.NoError(t, err)

	want := "The total clicks is 6."
	saved := &interaction.Record{ID: 7, Timestamp: "2024-03-01 10:00:00", Question: "total clicks", Answer: want}
	log.On("Append", ctx, "total clicks", want).Return(saved, nil).Once()

	next, record, err := it.Ask(ctx, state, "  total clicks  ")
	require.NoError(t, err)
	assert.Equal(t, saved, record)
	assert.Nil(t, next.Notice)
	assert.Equal(t, []session.Message{
		{Sender: session.SenderUser, Text: "total clicks"},
		{Sender: session.SenderBot, Text: want},
	}, next.Transcript)
	assert.Empty(t, state.Transcript, "the input state is not modified")
	log.AssertExpectations(t)
}

func TestInteractor_AskRejectsBeforeDispatch(t *testing.T) {
	ctx := context.Background()
	log := &MockInteractionLog{}
	it := newInteractor(log)

	empty := session.NewState(core.NewSessionID())
	next, record, err := it.Ask(ctx, empty, "total clicks")
	require.Error(t, err)
	assert.Nil(t, record)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))
	require.NotNil(t, next.Notice)
	assert.Equal(t, NoticeWarning, next.Notice.Level)

	loaded, err := it.Upload(empty, "campaigns.csv", []byte(campaignsCSV))
	require.NoError(t, err)
	for _, raw := range []string{"", "   ", "\n\t"} {
		next, record, err = it.Ask(ctx, loaded, raw)
		require.Error(t, err)
		assert.True(t, errors.IsEmptyQuestion(err))
		assert.Nil(t, record)
		assert.Equal(t, "Please enter a question.", next.Notice.Text)
		assert.Empty(t, next.Transcript)
	}

	log.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestInteractor_AskLogFailure(t *testing.T) {
	ctx := context.Background()
	log := &MockInteractionLog{}
	it := newInteractor(log)

	state, err := it.Upload(session.NewState(core.NewSessionID()), "campaigns.csv", []byte(campaignsCSV))
	require.NoError(t, err)

	log.On("Append", ctx, "hello", qa.ReplyGreeting).Return(nil, stderrors.New("disk full"))

	next, record, err := it.Ask(ctx, state, "hello")
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Empty(t, next.Transcript)
	require.NotNil(t, next.Notice)
	assert.Equal(t, NoticeError, next.Notice.Level)
}

func TestInteractor_HistoryLatestFirst(t *testing.T) {
	ctx := context.Background()
	log := &MockInteractionLog{}
	it := newInteractor(log)

	log.On("LoadAll", ctx).Return([]interaction.Record{
		{ID: 1, Question: "first"},
		{ID: 2, Question: "second"},
		{ID: 3, Question: "third"},
	}, nil)

	records, err := it.History(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "third", records[0].Question)
	assert.Equal(t, "first", records[2].Question)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	id := core.NewSessionID()

	state, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, state.ID)
	assert.False(t, state.HasDataset())
	assert.Equal(t, 0, store.Len())

	state = state.WithMessages(session.Message{Sender: session.SenderUser, Text: "hi"})
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Transcript, 1)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CleanupOldSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStoreWithClock(func() time.Time { return now })

	idle := session.NewState(core.NewSessionID())
	active := session.NewState(core.NewSessionID())
	require.NoError(t, store.Save(ctx, idle))
	require.NoError(t, store.Save(ctx, active))

	now = now.Add(90 * time.Minute)
	_, err := store.Get(ctx, active.ID)
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, store.CleanupOldSessions(2*time.Hour))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, idle.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Transcript)
	assert.Equal(t, 0, store.CleanupOldSessions(2*time.Hour), "a fresh state is not stored by Get")
}

func TestMemoryStore_RunCleanupStopsWithContext(t *testing.T) {
	store := NewMemoryStoreWithClock(func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		store.RunCleanup(ctx, time.Millisecond, time.Hour, nil)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
