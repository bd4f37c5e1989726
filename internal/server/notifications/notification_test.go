package notifications

import (
	"context"
	"testing"

	"github.com/Santos2175/auth-app/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRenderer_AllKinds(t *testing.T) {
	r := newRenderer(t)

	tests := []struct {
		n    Notification
		want []string
	}{
		{VerificationEmail("a@x.com", "Ann", "123456"), []string{"Hello Ann", "123456"}},
		{PasswordResetRequestEmail("a@x.com", "Ann", "http://client/reset-password/abc"), []string{`href="http://client/reset-password/abc"`}},
		{PasswordResetSuccessEmail("a@x.com", "Ann"), []string{"Password reset successful", "Hello Ann"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.n.Kind), func(t *testing.T) {
			body, err := r.Render(tt.n)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, body, w)
			}
		})
	}
}

func TestRenderer_EscapesContext(t *testing.T) {
	body, err := newRenderer(t).Render(VerificationEmail("a@x.com", "<script>", "1"))
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRenderer_UnknownKind(t *testing.T) {
	_, err := newRenderer(t).Render(Notification{Kind: "nope"})
	assert.Error(t, err)
}

func TestNotificationConstructors(t *testing.T) {
	n := VerificationEmail("a@x.com", "Ann", "123456")
	assert.Equal(t, KindEmailVerification, n.Kind)
	assert.Equal(t, "a@x.com", n.Recipient)
	assert.Equal(t, "123456", n.Context["verificationCode"])

	n = PasswordResetRequestEmail("a@x.com", "Ann", "u")
	assert.Equal(t, KindPasswordResetRequest, n.Kind)
	assert.Equal(t, "u", n.Context["resetURL"])

	n = PasswordResetSuccessEmail("a@x.com", "Ann")
	assert.Equal(t, KindPasswordResetSuccess, n.Kind)
}

func TestLogSink_Send(t *testing.T) {
	sink := NewLogSink(logging.Nop{}, newRenderer(t))
	assert.NoError(t, sink.Send(context.Background(), VerificationEmail("a@x.com", "Ann", "1")))
	assert.Error(t, sink.Send(context.Background(), Notification{Kind: "nope"}))
}
