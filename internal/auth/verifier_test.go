package auth

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hostgate/internal/logging"
)

// interleave 在 word 的每个字符前插入一个填充字符，得到可通过校验的密码
func interleave(word string, pad rune) string {
	var out []rune
	for _, r := range word {
		out = append(out, pad, r)
	}
	return string(out)
}

func testVerifier(buf *bytes.Buffer) *Verifier {
	v := NewVerifier()
	v.Logger = slog.New(logging.NewHandler(buf, "test", &slog.HandlerOptions{Level: slog.LevelDebug}))
	return v
}

func TestCheckWord_BoundaryLengths(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"a", ""},
		{"ab", "b"},
		{"abc", "b"},
		{"xAyB", "ab"},
		{"xAyBz", "ab"},
		{"пРиВет", "рвт"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CheckWord(c.in), "input %q", c.in)
	}
}

func TestVerify_AcceptsInterleavedPassword(t *testing.T) {
	var buf bytes.Buffer
	v := testVerifier(&buf)

	assert.True(t, v.Verify(DefaultLogin, interleave("__password__", 'z')))
	assert.True(t, v.Verify(DefaultLogin, interleave("__PASSWORD__", '1')+"!"))
	assert.Contains(t, buf.String(), "password accepted")
}

func TestVerify_RejectsPlainPassword(t *testing.T) {
	var buf bytes.Buffer
	v := testVerifier(&buf)

	assert.False(t, v.Verify(DefaultLogin, "__password__"))
	assert.False(t, v.Verify(DefaultLogin, ""))
	assert.Contains(t, buf.String(), "wrong password")
}

func TestVerify_RejectsOtherUsernames(t *testing.T) {
	var buf bytes.Buffer
	v := testVerifier(&buf)
	pwd := interleave("__password__", 'z')

	for _, u := range []string{"", "admin", "__LOGIN__", "__login__ "} {
		assert.False(t, v.Verify(u, pwd), "username %q", u)
	}
	assert.Contains(t, buf.String(), "wrong login")
}

func TestVerify_LogsRawCredentials(t *testing.T) {
	var buf bytes.Buffer
	v := testVerifier(&buf)

	v.Verify("someone", "s3cret")
	assert.Contains(t, buf.String(), "username=someone password=s3cret")
}

func TestVerify_TestModeAcceptsAnything(t *testing.T) {
	var buf bytes.Buffer
	v := testVerifier(&buf)
	v.TestMode = true

	assert.True(t, v.Verify("anyone", "anything"))
	assert.True(t, v.Verify("", ""))
}

func TestVerify_CheckWordHash(t *testing.T) {
	var buf bytes.Buffer
	v := testVerifier(&buf)
	hash, err := bcrypt.GenerateFromPassword([]byte("opensesame"), bcrypt.MinCost)
	require.NoError(t, err)
	v.CheckWordHash = string(hash)

	assert.True(t, v.Verify(DefaultLogin, interleave("opensesame", '.')))
	assert.False(t, v.Verify(DefaultLogin, interleave("__password__", '.')))
}

func TestHashCheckWord(t *testing.T) {
	_, err := HashCheckWord("")
	assert.ErrorIs(t, err, ErrEmptyCheckWord)

	hash, err := HashCheckWord("abc")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("abc")))
}

func TestRequireAuth(t *testing.T) {
	var buf bytes.Buffer
	v := testVerifier(&buf)
	var gotUser string
	h := RequireAuth(v, func(w http.ResponseWriter, r *http.Request) {
		c, ok := CredentialFrom(r.Context())
		require.True(t, ok)
		gotUser = c.Username
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("missing credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"data":"","error":"Unauthorized access"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.SetBasicAuth(DefaultLogin, "__password__")
		h(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"data":"","error":"Unauthorized access"}`, rec.Body.String())
	})

	t.Run("missing credentials are still verified and logged", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, buf.String(), `auth request username="" password=""`)
	})

	t.Run("test mode accepts request without header", func(t *testing.T) {
		tv := testVerifier(&bytes.Buffer{})
		tv.TestMode = true
		th := RequireAuth(tv, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		rec := httptest.NewRecorder()
		th(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("accepted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.SetBasicAuth(DefaultLogin, interleave("__password__", 'q'))
		h(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, DefaultLogin, gotUser)
	})
}
