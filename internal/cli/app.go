// Package cli implements the interactive account forms: signup, login,
// account view and plan selection with a local cart.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iliyamo/launchdev/internal/client"
	"github.com/iliyamo/launchdev/internal/model"
)

// API is the server surface the forms use.  *client.Client implements it.
type API interface {
	client.Purchaser
	Signup(ctx context.Context, email, password, name string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	GetUser(ctx context.Context) (model.UserView, error)
	LoggedIn() bool
}

// App holds the state of one interactive session.
type App struct {
	api  API
	cart client.Cart
	in   *bufio.Reader
	out  io.Writer
}

func NewApp(api API, in io.Reader, out io.Writer) *App {
	return &App{api: api, in: bufio.NewReader(in), out: out}
}

// Run reads commands until EOF or "exit".
func (a *App) Run(ctx context.Context) error {
	a.println("Type 'help' for the list of commands.")
	for {
		fmt.Fprintf(a.out, "launchdev %s> ", a.status())
		line, err := a.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			a.println("Bye!")
			return nil
		}
		if err := a.dispatch(ctx, fields[0], fields[1:]); err != nil {
			a.println("Error:", describe(err))
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.help()
		return nil
	case "signup":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "account", "me":
		return a.Account(ctx)
	case "plans":
		a.Plans()
		return nil
	case "select", "add":
		if len(args) != 1 {
			return errors.New("usage: select <monthly|lifetime>")
		}
		return a.Select(args[0])
	case "cart":
		a.Cart()
		return nil
	case "checkout", "buy":
		return a.Checkout(ctx)
	default:
		a.println("Unknown command:", cmd)
		return nil
	}
}

func (a *App) help() {
	if a.api.LoggedIn() {
		a.println("Available commands: account, plans, select <plan>, cart, checkout, logout, exit")
		return
	}
	a.println("Available commands: signup, login, plans, exit")
}

func (a *App) status() string {
	if a.api.LoggedIn() {
		return "(signed in)"
	}
	return "(guest)"
}

// Signup shows the signup form.
func (a *App) Signup(ctx context.Context) error {
	name, err := getText(a.in, a.out, "Name (optional)")
	if err != nil {
		return err
	}
	email, err := getText(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.in, a.out)
	if err != nil {
		return err
	}
	if err := a.api.Signup(ctx, email, password, name); err != nil {
		return err
	}
	a.println("Account created. You can log in now.")
	return nil
}

// Login shows the login form.
func (a *App) Login(ctx context.Context) error {
	email, err := getText(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.in, a.out)
	if err != nil {
		return err
	}
	if err := a.api.Login(ctx, email, password); err != nil {
		return err
	}
	a.println("Signed in.")
	return nil
}

// Logout ends the session and drops the cart.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	a.cart.Clear()
	a.println("Signed out.")
	return nil
}

// Account prints the current user.
func (a *App) Account(ctx context.Context) error {
	u, err := a.api.GetUser(ctx)
	if err != nil {
		return err
	}
	a.println("ID:", u.ID)
	if u.Name != nil {
		a.println("Name:", *u.Name)
	}
	a.println("Email:", u.Email)
	if u.IsPaid && u.Plan != nil {
		a.println("Plan:", planLabel(*u.Plan))
		a.println("Status: Paid User")
	} else {
		a.println("Status: Not Paid")
	}
	return nil
}

// Plans lists the purchasable plans.
func (a *App) Plans() {
	for _, p := range model.Plans {
		a.println(" -", p, "("+planLabel(p)+")")
	}
}

// Select puts a plan in the cart, replacing the previous selection.
func (a *App) Select(raw string) error {
	p, ok := model.ParsePlan(raw)
	if !ok {
		return fmt.Errorf("unknown plan %q", raw)
	}
	a.cart.Add(p)
	a.println("Selected:", planLabel(p))
	return nil
}

// Cart prints the pending selection.
func (a *App) Cart() {
	items := a.cart.Items()
	if len(items) == 0 {
		a.println("Cart is empty.")
		return
	}
	for _, p := range items {
		a.println("Cart:", planLabel(p))
	}
}

// Checkout buys the selected plan.
func (a *App) Checkout(ctx context.Context) error {
	p, err := a.cart.Checkout(ctx, a.api)
	if err != nil {
		return err
	}
	a.println("You purchased the", string(p), "plan!")
	return nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func planLabel(p model.Plan) string {
	switch p {
	case model.PlanMonthly:
		return "Monthly Plan"
	case model.PlanLifetime:
		return "Lifetime Plan"
	}
	return string(p)
}

func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, client.ErrEmptyCart) {
		return "nothing selected, use 'select <plan>' first"
	}
	return err.Error()
}
