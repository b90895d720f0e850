package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ori-platform/ori-auth/config"
	"github.com/ori-platform/ori-auth/internal/bootstrap"
	domainauth "github.com/ori-platform/ori-auth/internal/domain/auth"
	apperrors "github.com/ori-platform/ori-auth/internal/errors"
)

const minPasswordLength = 6

type createAdminOptions struct {
	Email    string
	Password string
	Name     string
	Timeout  time.Duration
}

func parseCreateAdminFlags(args []string) (createAdminOptions, error) {
	var opts createAdminOptions
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.StringVar(&opts.Email, "email", "", "administrator email (required)")
	fs.StringVar(&opts.Password, "password", "", "administrator password (required)")
	fs.StringVar(&opts.Name, "name", "", "display name (required)")
	fs.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.Email = strings.TrimSpace(opts.Email)
	opts.Name = strings.TrimSpace(opts.Name)
	switch {
	case opts.Email == "":
		return opts, errors.New("--email is required")
	case opts.Password == "":
		return opts, errors.New("--password is required")
	case len(opts.Password) < minPasswordLength:
		return opts, fmt.Errorf("--password must be at least %d characters", minPasswordLength)
	case len(opts.Password) > domainauth.MaxPasswordBytes:
		return opts, fmt.Errorf("--password must be at most %d bytes", domainauth.MaxPasswordBytes)
	case opts.Name == "":
		return opts, errors.New("--name is required")
	case opts.Timeout <= 0:
		return opts, errors.New("--timeout must be positive")
	}
	return opts, nil
}

// runCreateAdmin provisions an ori account. HTTP signup refuses that role, so
// this is the only way to create the first administrator.
func runCreateAdmin(cmdCtx *commandContext, args []string) error {
	opts, err := parseCreateAdminFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	redisClient, err := connectSessionRedis(ctx, cmdCtx)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				cmdCtx.Logger.Warn("redis close failed", "error", cerr)
			}
		}()
	}

	gw, err := bootstrap.BuildGateway(bootstrap.GatewayConfig{
		Config: &cmdCtx.Config,
		Redis:  redisClient,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := gw.Close(context.WithoutCancel(ctx)); cerr != nil {
			cmdCtx.Logger.Warn("identity gateway close failed", "error", cerr)
		}
	}()

	user, err := gw.SignUpEmail(ctx, domainauth.SignUpInput{
		Email:    opts.Email,
		Password: opts.Password,
		Name:     opts.Name,
		Role:     domainauth.RoleOri,
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			if werr := writef(cmdCtx.Stdout,
				"An account with email %q already exists. Sign in with it, or pick another email.\n",
				opts.Email,
			); werr != nil {
				return fmt.Errorf("print duplicate hint: %w", werr)
			}
		}
		return fmt.Errorf("create admin: %w", err)
	}

	if err := writef(cmdCtx.Stdout,
		"Created administrator\n  id:    %s\n  email: %s\n  name:  %s\n  role:  %s\n",
		user.ID, user.Email, user.Name, user.Role,
	); err != nil {
		return fmt.Errorf("print admin summary: %w", err)
	}
	return nil
}

// connectSessionRedis returns a Redis client only when sessions live in Redis.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectSessionRedis(ctx context.Context, cmdCtx *commandContext) (redis.UniversalClient, error) {
	if cmdCtx.Config.Auth.SessionStore != config.SessionStoreRedis {
		return nil, nil
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisDeps{
		Config: cmdCtx.Config.Redis,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}
