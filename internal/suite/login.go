package suite

import (
	"context"
	"net/http"

	"github.com/storecheck/storecheck/internal/check"
	"github.com/storecheck/storecheck/internal/payload"
	"github.com/storecheck/storecheck/internal/types"
)

// LoginRejected is the body the auth endpoint returns for bad credentials.
const LoginRejected = "username or password is incorrect"

// Login covers the auth endpoint.
func Login() []Case {
	return []Case{
		{Suite: "login", Name: "invalid-user", Group: "auth", Priority: 1, Run: invalidUserLogin},
		{Suite: "login", Name: "valid-user", Group: "auth", Priority: 2, Run: validUserLogin},
	}
}

func invalidUserLogin(ctx context.Context, t *T) {
	resp := t.Must(t.Client.Login(ctx, payload.Login(t.Faker)))
	t.Check(
		check.Status(resp, http.StatusUnauthorized),
		check.BodyEquals(resp, LoginRejected),
	)
}

func validUserLogin(ctx context.Context, t *T) {
	l := types.Login{
		Username: t.Config.Property("username"),
		Password: t.Config.Property("password"),
	}
	if l.Username == "" || l.Password == "" {
		t.Skipf("no username/password configured")
	}
	resp := t.Must(t.Client.Login(ctx, l))
	t.Check(check.Status(resp, http.StatusOK), check.NotNull(resp, "token"))
}
