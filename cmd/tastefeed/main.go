package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/tastefeed/internal/profile"
	"github.com/hrygo/tastefeed/server"
	"github.com/hrygo/tastefeed/store"
	"github.com/hrygo/tastefeed/store/db"
)

const (
	greetingBanner = `tastefeed - swipe-driven recommendations`
	version        = "0.1.0"
)

var (
	instanceProfile *profile.Profile

	rootCmd = &cobra.Command{
		Use:   "tastefeed",
		Short: "A swipe-driven personalization service",
		Run: func(_ *cobra.Command, _ []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				slog.Error("failed to create db driver", slog.String("error", err.Error()))
				return
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				slog.Error("failed to migrate db", slog.String("error", err.Error()))
				return
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				slog.Error("failed to create server", slog.String("error", err.Error()))
				return
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigChan
				slog.Info("received signal, shutting down", slog.String("signal", sig.String()))
				s.Shutdown(ctx)
				cancel()
			}()

			printGreetings(instanceProfile)

			if err := s.Start(ctx); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("failed to start server", slog.String("error", err.Error()))
					cancel()
				}
			}

			<-ctx.Done()
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8230)
	viper.SetDefault("data", "")
	viper.SetDefault("embedding-dim", 768)
	viper.SetDefault("learning-rate", 0.1)
	viper.SetDefault("candidate-pool", 500)

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8230, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().Int("embedding-dim", 768, "dimensionality of item and taste vectors")
	rootCmd.PersistentFlags().Float64("learning-rate", 0.1, "EMA learning rate for taste updates")
	rootCmd.PersistentFlags().Int("candidate-pool", 500, "max candidates scored per feed request")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("tastefeed")
	viper.AutomaticEnv()
}

func initConfig() {
	instanceProfile = &profile.Profile{
		Mode:          viper.GetString("mode"),
		Addr:          viper.GetString("addr"),
		Port:          viper.GetInt("port"),
		Data:          viper.GetString("data"),
		Driver:        viper.GetString("driver"),
		DSN:           viper.GetString("dsn"),
		Version:       version,
		EmbeddingDim:  viper.GetInt("embedding-dim"),
		LearningRate:  viper.GetFloat64("learning-rate"),
		CandidatePool: viper.GetInt("candidate-pool"),
	}
	instanceProfile.FromEnv()

	if err := instanceProfile.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func printGreetings(p *profile.Profile) {
	fmt.Println(greetingBanner)
	fmt.Printf("version %s, mode %s, driver %s\n", p.Version, p.Mode, p.Driver)
	fmt.Printf("listening on %s:%d\n", p.Addr, p.Port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
