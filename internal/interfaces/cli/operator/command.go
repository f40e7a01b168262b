// Package operator seeds and inspects the operator directory in Redis.
package operator

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	domain "github.com/Saaayurii/Chat-sub000/internal/domain/operator"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/cache"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/config"
	"github.com/Saaayurii/Chat-sub000/internal/shared/utils"
)

var env string

type setOptions struct {
	tags    []string
	email   string
	active  int
	online  bool
	blocked bool
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator",
		Short: "Seed and inspect the operator directory",
		Long:  `Write availability snapshots into the Redis operator directory and list what assignment currently sees. Intended for local setups and incident fixes; the account service owns these records in production.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	var opts setOptions
	set := &cobra.Command{
		Use:   "set <operator-id>",
		Short: "Write an operator availability snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(func(ctx context.Context, d *cache.RedisOperatorDirectory) error {
				a, err := applySet(ctx, d, args[0], opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "operator %s saved (tags: %s)\n", a.ID, strings.Join(a.Tags, ","))
				return nil
			})
		},
	}
	set.Flags().StringSliceVar(&opts.tags, "tags", nil, "Skill tags, comma separated")
	set.Flags().StringVar(&opts.email, "email", "", "Address for offline transfer offers")
	set.Flags().IntVar(&opts.active, "active", 0, "Active conversation count")
	set.Flags().BoolVar(&opts.online, "online", false, "Mark the operator online")
	set.Flags().BoolVar(&opts.blocked, "blocked", false, "Exclude the operator from assignment")

	list := &cobra.Command{
		Use:   "list",
		Short: "List operators known to the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDirectory(func(ctx context.Context, d *cache.RedisOperatorDirectory) error {
				operators, err := d.List(ctx)
				if err != nil {
					return err
				}
				printOperators(cmd.OutOrStdout(), operators)
				return nil
			})
		},
	}

	cmd.AddCommand(set, list)
	return cmd
}

// applySet validates and writes one snapshot, returning it as stored.
func applySet(ctx context.Context, d *cache.RedisOperatorDirectory, operatorID string, opts setOptions) (*domain.Availability, error) {
	if !utils.IsOpaqueID(operatorID) {
		return nil, fmt.Errorf("invalid operator id %q", operatorID)
	}
	if opts.active < 0 {
		return nil, fmt.Errorf("active conversation count cannot be negative")
	}

	if err := d.Upsert(ctx, &domain.Availability{
		ID:                  operatorID,
		ActiveConversations: opts.active,
		Online:              opts.online,
		Blocked:             opts.blocked,
		Tags:                opts.tags,
		Email:               opts.email,
	}); err != nil {
		return nil, err
	}
	return d.Get(ctx, operatorID)
}

func printOperators(w io.Writer, operators []*domain.Availability) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tONLINE\tBLOCKED\tACTIVE\tTAGS")
	for _, a := range operators {
		fmt.Fprintf(tw, "%s\t%t\t%t\t%d\t%s\n", a.ID, a.Online, a.Blocked, a.ActiveConversations, strings.Join(a.Tags, ","))
	}
	tw.Flush()
}

func withDirectory(fn func(ctx context.Context, d *cache.RedisOperatorDirectory) error) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return fn(ctx, cache.NewRedisOperatorDirectory(client))
}
