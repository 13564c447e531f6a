package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	err   error
	types []string
}

func (f *fakeProcessor) ProcessTask(_ context.Context, t *asynq.Task) error {
	f.types = append(f.types, t.Type())
	return f.err
}

func TestServeMuxRoutesFeedbackReports(t *testing.T) {
	p := &fakeProcessor{}
	mux := NewServeMux(p)

	require.NoError(t, mux.ProcessTask(context.Background(), asynq.NewTask(TypeFeedbackSubmit, []byte(`{}`))))
	assert.Equal(t, []string{TypeFeedbackSubmit}, p.types)

	err := mux.ProcessTask(context.Background(), asynq.NewTask("report:unknown", nil))
	assert.Error(t, err)
	assert.Len(t, p.types, 1)
}

func TestServeMuxPropagatesFailure(t *testing.T) {
	boom := errors.New("insert failed")
	mux := NewServeMux(&fakeProcessor{err: boom})

	err := mux.ProcessTask(context.Background(), asynq.NewTask(TypeFeedbackSubmit, nil))
	assert.ErrorIs(t, err, boom)
}
