package resilience

import (
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("bad request")))

	te := NewTransientError(errors.New("upstream 503"), 503)
	assert.True(t, IsTransient(te))
	assert.True(t, IsTransient(eris.Wrap(te, "query failed")))

	assert.True(t, IsTransient(errors.New("read tcp: i/o timeout")))
	assert.True(t, IsTransient(errors.New("dial tcp: no such host")))
}

func TestIsMalformedQuery(t *testing.T) {
	t.Parallel()

	mq := &MalformedQueryError{Dataset: "hpd_violations", Detail: "unexpected token"}
	assert.True(t, IsMalformedQuery(mq))
	assert.True(t, IsMalformedQuery(eris.Wrap(mq, "search")))
	assert.False(t, IsMalformedQuery(errors.New("nope")))
	assert.Contains(t, mq.Error(), "hpd_violations")
}

func TestIsTransientHTTPStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "code %d", code)
	}
	for _, code := range []int{200, 201, 301, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "code %d", code)
	}
}

func TestTransientErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	te := NewTransientError(inner, 500)
	assert.ErrorIs(t, te, inner)
	assert.Equal(t, "boom", te.Error())
}
