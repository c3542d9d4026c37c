package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/iudanet/usersauth/internal/client/api"
	"github.com/iudanet/usersauth/internal/client/auth"
	"github.com/iudanet/usersauth/internal/client/iocli"
	"github.com/iudanet/usersauth/internal/client/storage/boltdb"
	"github.com/iudanet/usersauth/internal/logging"
)

// ErrNoCommand returned when neither a command nor --version was given
var ErrNoCommand = errors.New("no command given")

// Options are the global client flags
type Options struct {
	Server       string `short:"s" long:"server" env:"USERSAUTH_SERVER" default:"http://localhost:5000" description:"server URL"`
	DB           string `long:"db" env:"USERSAUTH_CLIENT_DB" default:"usersauth-client.db" description:"path to local session database"`
	PasswordFile string `long:"password-file" description:"read password from file instead of prompting"`
	LogLevel     string `long:"log-level" default:"warn" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"log level"`
	Version      bool   `short:"v" long:"version" description:"show version information"`
}

// Connector builds the Cli for parsed options; the returned func releases its resources
type Connector func(opts *Options, io iocli.IO) (*Cli, func() error, error)

// Connect opens the local session database and the server API client
func Connect(opts *Options, io iocli.IO) (*Cli, func() error, error) {
	logger, err := logging.New(opts.LogLevel, "text", os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	store, err := boltdb.New(context.Background(), opts.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	client := api.NewClient(opts.Server)
	authService := auth.NewAuthService(client, store, logger)

	return New(io, authService, client, opts.PasswordFile), store.Close, nil
}

// Application разбирает аргументы командной строки и запускает команду
type Application struct {
	ctx     context.Context
	io      iocli.IO
	connect Connector
	version string
	opts    Options
	ran     bool
}

func NewApplication(io iocli.IO, connect Connector, version string) *Application {
	return &Application{
		io:      io,
		connect: connect,
		version: version,
	}
}

// Run parses args and executes the selected command
func (a *Application) Run(ctx context.Context, args []string) error {
	a.ctx = ctx
	a.ran = false

	parser, err := a.newParser()
	if err != nil {
		return err
	}

	if _, err := parser.ParseArgs(args); err != nil {
		return err
	}

	if a.ran {
		return nil
	}

	if a.opts.Version {
		a.io.Printf("usersauth client %s\n", a.version)
		return nil
	}

	parser.WriteHelp(a.io)
	return ErrNoCommand
}

func (a *Application) newParser() (*flags.Parser, error) {
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "usersauth"
	parser.SubcommandsOptional = true

	commands := []struct {
		data  any
		name  string
		short string
	}{
		{name: "register", short: "Register new user", data: &registerCommand{app: a}},
		{name: "login", short: "Login to server", data: &loginCommand{app: a}},
		{name: "logout", short: "Logout from server", data: &logoutCommand{app: a}},
		{name: "status", short: "Show authentication status", data: &statusCommand{app: a}},
	}
	for _, cmd := range commands {
		if _, err := parser.AddCommand(cmd.name, cmd.short, "", cmd.data); err != nil {
			return nil, fmt.Errorf("add command %s: %w", cmd.name, err)
		}
	}

	users, err := parser.AddCommand("users", "Manage users", "", &struct{}{})
	if err != nil {
		return nil, fmt.Errorf("add command users: %w", err)
	}

	subcommands := []struct {
		data  any
		name  string
		short string
	}{
		{name: "add", short: "Add user (requires login)", data: &usersAddCommand{app: a}},
		{name: "list", short: "List users, newest first", data: &usersListCommand{app: a}},
		{name: "get", short: "Show user by id", data: &usersGetCommand{app: a}},
	}
	for _, cmd := range subcommands {
		if _, err := users.AddCommand(cmd.name, cmd.short, "", cmd.data); err != nil {
			return nil, fmt.Errorf("add command users %s: %w", cmd.name, err)
		}
	}

	return parser, nil
}

// run подключается к серверу и выполняет fn
func (a *Application) run(fn func(ctx context.Context, c *Cli) error) error {
	a.ran = true

	c, closeFn, err := a.connect(&a.opts, a.io)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeFn()
	}()

	return fn(a.ctx, c)
}

type registerCommand struct {
	app      *Application
	Username string `short:"u" long:"username" description:"username (prompted if empty)"`
	Email    string `short:"e" long:"email" description:"email (prompted if empty)"`
}

func (cmd *registerCommand) Execute([]string) error {
	return cmd.app.run(func(ctx context.Context, c *Cli) error {
		return c.runRegister(ctx, cmd.Username, cmd.Email)
	})
}

type loginCommand struct {
	app        *Application
	Identifier string `short:"i" long:"identifier" description:"email or username (prompted if empty)"`
}

func (cmd *loginCommand) Execute([]string) error {
	return cmd.app.run(func(ctx context.Context, c *Cli) error {
		return c.runLogin(ctx, cmd.Identifier)
	})
}

type logoutCommand struct {
	app *Application
}

func (cmd *logoutCommand) Execute([]string) error {
	return cmd.app.run(func(ctx context.Context, c *Cli) error {
		return c.runLogout(ctx)
	})
}

type statusCommand struct {
	app *Application
}

func (cmd *statusCommand) Execute([]string) error {
	return cmd.app.run(func(ctx context.Context, c *Cli) error {
		return c.runStatus(ctx)
	})
}

type usersAddCommand struct {
	app      *Application
	Username string `short:"u" long:"username" description:"username (prompted if empty)"`
	Email    string `short:"e" long:"email" description:"email (prompted if empty)"`
}

func (cmd *usersAddCommand) Execute([]string) error {
	return cmd.app.run(func(ctx context.Context, c *Cli) error {
		return c.runUsersAdd(ctx, cmd.Username, cmd.Email)
	})
}

type usersListCommand struct {
	app *Application
}

func (cmd *usersListCommand) Execute([]string) error {
	return cmd.app.run(func(ctx context.Context, c *Cli) error {
		return c.runUsersList(ctx)
	})
}

type usersGetCommand struct {
	app  *Application
	Args struct {
		ID int64 `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`
}

func (cmd *usersGetCommand) Execute([]string) error {
	return cmd.app.run(func(ctx context.Context, c *Cli) error {
		return c.runUsersGet(ctx, cmd.Args.ID)
	})
}
