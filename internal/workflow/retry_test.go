package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/matchengine/internal/errs"
)

func TestRetryPolicySucceedsWithoutRetry(t *testing.T) {
	p := newRetryPolicy(3, time.Millisecond)
	calls := 0
	err := p.run(context.Background(), arbor.NewLogger(), func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyRetriesTransientThenSucceeds(t *testing.T) {
	p := newRetryPolicy(3, time.Millisecond)
	calls := 0
	err := p.run(context.Background(), arbor.NewLogger(), func() error {
		calls++
		if calls < 3 {
			return errs.Transient(errors.New("temporary"))
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyDoesNotRetryPermanent(t *testing.T) {
	p := newRetryPolicy(5, time.Millisecond)
	calls := 0
	err := p.run(context.Background(), arbor.NewLogger(), func() error {
		calls++
		return errs.Permanent(errors.New("bad request"))
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestRetryPolicyGivesUpAfterMaxAttempts(t *testing.T) {
	p := newRetryPolicy(3, time.Millisecond)
	calls := 0
	err := p.run(context.Background(), arbor.NewLogger(), func() error {
		calls++
		return errs.Transient(errors.New("still failing"))
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}
