package main

import (
	"net/http"
	"strings"

	"github.com/five82/aromai/internal/app"
)

type commandContext struct {
	configPath  string
	sessionPath string
	dotenvPath  string
	logLevel    string

	httpClient *http.Client // set by tests
}

func (c *commandContext) options(logToFile bool) app.Options {
	return app.Options{
		ConfigPath:  strings.TrimSpace(c.configPath),
		DotenvPath:  strings.TrimSpace(c.dotenvPath),
		SessionPath: strings.TrimSpace(c.sessionPath),
		LogLevel:    strings.TrimSpace(c.logLevel),
		LogToFile:   logToFile,
		HTTPClient:  c.httpClient,
	}
}

// withApp builds the application for one command and releases it afterwards.
func (c *commandContext) withApp(fn func(*app.App) error) error {
	return c.run(false, fn)
}

// withSession is withApp for commands that need a signed-in user.
func (c *commandContext) withSession(fn func(*app.App) error) error {
	return c.run(false, func(a *app.App) error {
		if err := a.RequireSession(); err != nil {
			return err
		}
		return fn(a)
	})
}

func (c *commandContext) run(logToFile bool, fn func(*app.App) error) error {
	a, err := app.New(c.options(logToFile))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(a)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
