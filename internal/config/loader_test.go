package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/laureates/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		noEnvFile := config.WithEnvFile("")

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, noEnvFile)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataPath, convey.ShouldEqual, "./data/nobel.csv")
				convey.So(cfg.MarkStep, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LAUREATES_ADDR", ":8080")
			_ = os.Setenv("LAUREATES_DATA_PATH", "/srv/nobel.csv")
			_ = os.Setenv("LAUREATES_MARK_STEP", "5")
			_ = os.Setenv("LAUREATES_RATE_LIMIT_RPS", "2.5")
			_ = os.Setenv("LAUREATES_LOG_LEVEL", "DEBUG")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, noEnvFile)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataPath, convey.ShouldEqual, "/srv/nobel.csv")
				convey.So(cfg.MarkStep, convey.ShouldEqual, 5)
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 2.5)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
data_path: "/data/laureates.csv"
mark_step: 20
log_format: json
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("LAUREATES_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, noEnvFile)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataPath, convey.ShouldEqual, "/data/laureates.csv")
				convey.So(cfg.MarkStep, convey.ShouldEqual, 20)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})

			convey.Convey("And missing fields should keep their defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
mark_step: 20
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("LAUREATES_CONFIG", tmpFile)
			_ = os.Setenv("LAUREATES_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, noEnvFile)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080") // Overridden by env
				convey.So(cfg.MarkStep, convey.ShouldEqual, 20)  // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)

			_ = os.Setenv("LAUREATES_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, noEnvFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("LAUREATES_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, noEnvFile)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("LAUREATES_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, noEnvFile)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Addr")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive mark step", func() {
			_ = os.Setenv("LAUREATES_MARK_STEP", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx, noEnvFile)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "MarkStep")
			})
		})

		convey.Convey("When a .env file is present", func() {
			clearConfigEnvVars()
			envFile := filepath.Join(t.TempDir(), ".env")
			content := "LAUREATES_DATA_PATH=/from/dotenv.csv\nLAUREATES_ADDR=:7070\n"
			convey.So(os.WriteFile(envFile, []byte(content), 0o600), convey.ShouldBeNil)

			_ = os.Setenv("LAUREATES_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, config.WithEnvFile(envFile))

			convey.Convey("Then unset variables should come from it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataPath, convey.ShouldEqual, "/from/dotenv.csv")
			})

			convey.Convey("And variables already set should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the .env file does not exist", func() {
			clearConfigEnvVars()
			cfg, err := config.Load(ctx, config.WithEnvFile(filepath.Join(t.TempDir(), ".env")))

			convey.Convey("Then it should be skipped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"LAUREATES_CONFIG",
		"LAUREATES_ADDR",
		"LAUREATES_DATA_PATH",
		"LAUREATES_MARK_STEP",
		"LAUREATES_RATE_LIMIT_RPS",
		"LAUREATES_LOG_LEVEL",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "laureates-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
