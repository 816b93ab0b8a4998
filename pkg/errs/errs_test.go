package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/valyala/fasthttp"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
	}{
		{NotFoundf("missing"), KindNotFound},
		{InvalidStatef("bad state"), KindInvalidState},
		{Conflictf("taken"), KindConflict},
		{InvalidRequestf("bad input"), KindInvalidRequest},
		{Unauthorizedf("no"), KindUnauthorized},
		{Internalf("boom"), KindInternal},
		{errors.New("plain"), KindUnknown},
		{nil, KindUnknown},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.kind {
			t.Errorf("KindOf(%v) = %d, want %d", tc.err, got, tc.kind)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := Wrap(KindInternal, errors.New("redis down"), "could not save")
	outer := fmt.Errorf("submitting answer: %w", inner)

	if !errors.Is(errors.Unwrap(outer), inner) {
		t.Fatalf("unexpected wrapping")
	}
	if KindOf(outer) != KindInternal {
		t.Errorf("KindOf through fmt wrap = %d, want KindInternal", KindOf(outer))
	}
	if got := inner.Error(); got != "could not save: redis down" {
		t.Errorf("Error() = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFoundf("missing"), fasthttp.StatusNotFound},
		{InvalidStatef("bad state"), fasthttp.StatusBadRequest},
		{InvalidRequestf("bad input"), fasthttp.StatusBadRequest},
		{Conflictf("taken"), fasthttp.StatusConflict},
		{Unauthorizedf("no"), fasthttp.StatusUnauthorized},
		{Internalf("boom"), fasthttp.StatusInternalServerError},
		{errors.New("plain"), fasthttp.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.status {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}
}
