package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfDefaultsToPermanentForUnclassifiedError(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, KindPermanent, KindOf(err))
	assert.True(t, IsPermanent(err))
	assert.False(t, IsTransient(err))
}

func TestTransientIsRetryable(t *testing.T) {
	err := Transient(errors.New("timeout"))
	assert.True(t, IsTransient(err))
	assert.False(t, IsPermanent(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(KindTransient, nil))
}

func TestWrapPreservesUnwrapChain(t *testing.T) {
	sentinel := errors.New("sentinel")
	wrapped := Transient(fmt.Errorf("context: %w", sentinel))

	assert.ErrorIs(t, wrapped, sentinel)
}

func TestEligibilityAndFatalClassification(t *testing.T) {
	assert.True(t, IsEligibility(Eligibility(errors.New("skip"))))
	assert.True(t, IsFatal(Fatal(errors.New("bad config"))))
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindTransient:    "transient",
		KindPermanent:    "permanent",
		KindEligibility:  "eligibility",
		KindCancellation: "cancellation",
		KindFatal:        "fatal",
		Kind(99):         "unknown",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestPermanentPreservesMessageAndUnwrapChain(t *testing.T) {
	base := errors.New("store unavailable")
	wrapped := Permanent(base)

	assert.Equal(t, base.Error(), wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
}
