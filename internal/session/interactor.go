package session

import (
	"context"
	"fmt"

	"askmydata/domain/interaction"
	"askmydata/domain/session"
	"askmydata/internal"
	"askmydata/internal/errors"
	"askmydata/internal/qa"
	"askmydata/ports"
)

const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"

	msgUploadFirst = "Please upload a CSV first before asking questions."
)

// Interactor runs one user interaction at a time: it takes the current
// session state and returns the next one.
type Interactor struct {
	reader ports.DatasetReader
	log    ports.InteractionLog
	logger *internal.Logger
}

// NewInteractor wires the upload reader and the interaction log
func NewInteractor(reader ports.DatasetReader, log ports.InteractionLog, logger *internal.Logger) *Interactor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Interactor{reader: reader, log: log, logger: logger.With("Interactor")}
}

// Upload replaces the session dataset with the decoded content. On a parse
// failure the previous dataset is kept and the error is returned alongside a
// state carrying an error notice.
func (i *Interactor) Upload(state session.State, name string, content []byte) (session.State, error) {
	ds, err := i.reader.ReadBytes(name, content)
	if err != nil {
		i.logger.Warn("upload %s rejected: %v", name, err)
		state.Notice = &session.Notice{Level: NoticeError, Text: fmt.Sprintf("Could not read %s: %v", name, err)}
		return state, err
	}

	state.Dataset = ds
	state.Notice = &session.Notice{
		Level: NoticeInfo,
		Text:  fmt.Sprintf("Loaded %s: %d rows, %d columns", name, ds.Len(), len(ds.Columns)),
	}
	i.logger.Info("session %s loaded %s (%d rows, %d columns)", state.ID, name, ds.Len(), len(ds.Columns))
	return state, nil
}

// Ask answers raw against the session dataset, appends the pair to the log
// and to the transcript. A session without a dataset or a blank question is
// rejected before the dispatcher runs.
func (i *Interactor) Ask(ctx context.Context, state session.State, raw string) (session.State, *interaction.Record, error) {
	if !state.HasDataset() {
		state.Notice = &session.Notice{Level: NoticeWarning, Text: msgUploadFirst}
		return state, nil, errors.InvalidInput(msgUploadFirst)
	}

	question, err := qa.ValidateQuestion(raw)
	if err != nil {
		state.Notice = &session.Notice{Level: NoticeWarning, Text: err.Error()}
		return state, nil, err
	}

	answer := qa.Answer(state.Dataset, question)
	i.logger.Debug("rule %s answered %q", qa.MatchedRule(state.Dataset, question), question)

	record, err := i.log.Append(ctx, question, answer)
	if err != nil {
		i.logger.Error("failed to save interaction: %v", err)
		state.Notice = &session.Notice{Level: NoticeError, Text: "Could not save this question to the history."}
		return state, nil, err
	}

	state = state.WithMessages(
		session.Message{Sender: session.SenderUser, Text: question},
		session.Message{Sender: session.SenderBot, Text: answer},
	)
	state.Notice = nil
	return state, record, nil
}

// History returns the whole interaction log, latest first
func (i *Interactor) History(ctx context.Context) ([]interaction.Record, error) {
	records, err := i.log.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return interaction.LatestFirst(records), nil
}
