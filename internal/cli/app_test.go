package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/launchdev/internal/client"
	"github.com/iliyamo/launchdev/internal/model"
)

type fakeAPI struct {
	users     map[string]string
	current   string
	plan      *model.Plan
	subscribe []model.Plan
}

func newFakeAPI() *fakeAPI { return &fakeAPI{users: map[string]string{}} }

func (f *fakeAPI) Signup(_ context.Context, email, password, _ string) error {
	if _, ok := f.users[email]; ok {
		return &client.APIError{StatusCode: http.StatusConflict, Message: "Email already registered"}
	}
	f.users[email] = password
	return nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) error {
	if pw, ok := f.users[email]; !ok || pw != password {
		return &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	f.current = email
	return nil
}

func (f *fakeAPI) Logout(context.Context) error { f.current = ""; return nil }

func (f *fakeAPI) LoggedIn() bool { return f.current != "" }

func (f *fakeAPI) GetUser(context.Context) (model.UserView, error) {
	if f.current == "" {
		return model.UserView{}, &client.APIError{StatusCode: http.StatusUnauthorized, Message: "No token provided"}
	}
	return model.UserView{ID: 1, Email: f.current, IsPaid: f.plan != nil, Plan: f.plan}, nil
}

func (f *fakeAPI) Subscribe(_ context.Context, p model.Plan) error {
	f.subscribe = append(f.subscribe, p)
	f.plan = &p
	return nil
}

func runScript(t *testing.T, api API, script string) string {
	t.Helper()
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = defaultIsTerminal })

	var out bytes.Buffer
	require.NoError(t, NewApp(api, strings.NewReader(script), &out).Run(context.Background()))
	return out.String()
}

func TestApp_SignupLoginSelectCheckout(t *testing.T) {
	api := newFakeAPI()
	out := runScript(t, api, strings.Join([]string{
		"signup", "A", "a@x.com", "p",
		"login", "a@x.com", "p",
		"account",
		"select lifetime",
		"select monthly",
		"cart",
		"checkout",
		"cart",
		"account",
		"exit",
	}, "\n")+"\n")

	assert.Contains(t, out, "Account created.")
	assert.Contains(t, out, "Signed in.")
	assert.Contains(t, out, "Status: Not Paid")
	assert.Contains(t, out, "Cart: Monthly Plan")
	assert.Contains(t, out, "You purchased the monthly plan!")
	assert.Contains(t, out, "Cart is empty.")
	assert.Contains(t, out, "Plan: Monthly Plan")
	assert.Contains(t, out, "Status: Paid User")
	assert.Contains(t, out, "Bye!")
	assert.Equal(t, []model.Plan{model.PlanMonthly}, api.subscribe)
}

func TestApp_ReportsErrors(t *testing.T) {
	api := newFakeAPI()
	out := runScript(t, api, strings.Join([]string{
		"login", "ghost@x.com", "p",
		"account",
		"checkout",
		"select weekly",
		"select",
		"dance",
	}, "\n"))

	assert.Contains(t, out, "Error: Invalid credentials")
	assert.Contains(t, out, "Error: No token provided")
	assert.Contains(t, out, "Error: nothing selected")
	assert.Contains(t, out, `Error: unknown plan "weekly"`)
	assert.Contains(t, out, "Error: usage: select <monthly|lifetime>")
	assert.Contains(t, out, "Unknown command: dance")
	assert.Empty(t, api.subscribe)
}

func TestApp_HelpDependsOnSession(t *testing.T) {
	api := newFakeAPI()
	api.users["a@x.com"] = "p"

	out := runScript(t, api, "help\nlogin\na@x.com\np\nhelp\nlogout\n")
	assert.Contains(t, out, "Available commands: signup, login, plans, exit")
	assert.Contains(t, out, "Available commands: account, plans, select <plan>, cart, checkout, logout, exit")
	assert.Contains(t, out, "Signed out.")
	assert.False(t, api.LoggedIn())
}

func TestGetPassword_Terminal(t *testing.T) {
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() {
		isTerminal = defaultIsTerminal
		readPassword = defaultReadPassword
	})

	var out bytes.Buffer
	pw, err := getPassword(bufio.NewReader(strings.NewReader("")), &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Contains(t, out.String(), "Password: ")
}
