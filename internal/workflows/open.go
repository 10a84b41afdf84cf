package workflows

import (
	"context"

	"github.com/passyvault/passy/internal/configs"
	logger "github.com/passyvault/passy/internal/logging"
	"github.com/passyvault/passy/internal/plugins"
	"github.com/passyvault/passy/internal/secrets"
	"github.com/passyvault/passy/internal/session"
	"github.com/passyvault/passy/internal/utils"
)

// OpenOptions configures the Open workflow.
type OpenOptions struct {
	// Appdata overrides $PASSY_HOME and the OS default.
	Appdata string

	// Opener replaces the native library loader. Nil uses the platform one.
	Opener plugins.Opener

	Logger logger.Logger
}

// Open resolves the appdata directory, loads config.toml and returns a
// host with nobody logged in. Unknown config keys are logged as warnings.
func Open(ctx context.Context, opts OpenOptions) (*session.Host, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings, err := configs.ResolveSettings(opts.Appdata)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debugf("Using appdata directory %s", settings.AppdataPath)

	config, unknown, err := configs.LoadConfig(settings)
	if err != nil {
		return nil, err
	}
	for _, key := range unknown {
		opts.Logger.Warnf("Unknown key %q in %s", key, settings.ConfigPath)
	}

	host := session.NewHost(settings, config, opts.Logger)
	host.Opener = opts.Opener
	return host, nil
}

// UnlockOptions configures the Unlock workflow.
type UnlockOptions struct {
	OpenOptions

	// User defaults to the sanitized OS username.
	User string

	// KeyFile, when set, is read instead of $PASSY_KEY or the prompt.
	KeyFile string

	// Prompt reads the key interactively. Nil disables prompting.
	Prompt func(prompt string) ([]byte, error)
}

// Unlock opens a host and logs the user in. It gives up before logging in
// if ctx is done.
func Unlock(ctx context.Context, opts UnlockOptions) (*session.Host, error) {
	host, err := Open(ctx, opts.OpenOptions)
	if err != nil {
		return nil, err
	}

	user := opts.User
	if user == "" {
		user = utils.DefaultUsername()
	}

	key, err := utils.LoadKey(utils.KeySource{File: opts.KeyFile, Prompt: opts.Prompt})
	if err != nil {
		return nil, err
	}
	defer secrets.Zero(key)

	// The prompt can block for a long time.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := host.Login(user, key); err != nil {
		return nil, err
	}
	return host, nil
}
