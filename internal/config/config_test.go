package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyvinh/dbhandle/internal/constants"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Load from file", func(t *testing.T) {
		path := writeConfigFile(t, `
app:
  environment: testing
database:
  driver: mysql
  host: db.internal
  port: 3307
  name: appdb
  user: app
  password: secret
logging:
  level: debug
  debug: true
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "testing", cfg.App.Environment)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 3307, cfg.Database.Port)
		assert.Equal(t, "appdb", cfg.Database.Name)
		assert.Equal(t, "app", cfg.Database.User)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Logging.Debug)
	})

	t.Run("Missing file uses environment and defaults", func(t *testing.T) {
		t.Setenv("DB_NAME", "envdb")
		t.Setenv("DB_USER", "envuser")

		cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "envdb", cfg.Database.Name)
		assert.Equal(t, "envuser", cfg.Database.User)
		assert.Equal(t, constants.DefaultDBHost, cfg.Database.Host)
		assert.Equal(t, constants.DriverMySQL, cfg.Database.Driver)
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  name: filedb
  user: fileuser
  host: filehost
`)
		t.Setenv("DB_HOST", "envhost")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "envhost", cfg.Database.Host)
		assert.Equal(t, "filedb", cfg.Database.Name)
	})

	t.Run("Missing database user fails validation", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  name: appdb
`)

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("Invalid driver fails validation", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  driver: oracle
  name: appdb
  user: app
`)

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("Invalid log level fails validation", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  name: appdb
  user: app
logging:
  level: whisper
`)

		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("Unknown environment falls back to development", func(t *testing.T) {
		path := writeConfigFile(t, `
app:
  environment: staging
database:
  name: appdb
  user: app
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, constants.EnvDevelopment, cfg.App.Environment)
	})

	t.Run("Malformed YAML fails", func(t *testing.T) {
		path := writeConfigFile(t, "database: [broken")

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestDefaults(t *testing.T) {
	t.Run("MySQL defaults", func(t *testing.T) {
		config := &AppConfig{}
		config.Database.Name = "appdb"
		config.Database.User = "app"

		setDefaults(config)

		assert.Equal(t, constants.DriverMySQL, config.Database.Driver)
		assert.Equal(t, constants.DefaultDBHost, config.Database.Host)
		assert.Equal(t, constants.DefaultMySQLPort, config.Database.Port)
		assert.Equal(t, constants.DefaultDBMaxConnections, config.Database.MaxConns)
		assert.Equal(t, constants.DefaultDBMinConnections, config.Database.MinConns)
		assert.Equal(t, constants.DefaultConnectTimeout, config.Database.ConnectTimeout)
		assert.Equal(t, constants.DefaultLogLevel, config.Logging.Level)
		assert.Equal(t, constants.DefaultQueryLogPath, config.Logging.QueryLogPath)
	})

	t.Run("Postgres default port", func(t *testing.T) {
		config := &AppConfig{}
		config.Database.Driver = constants.DriverPostgres

		setDefaults(config)

		assert.Equal(t, constants.DefaultPostgresPort, config.Database.Port)
	})

	t.Run("Explicit values preserved", func(t *testing.T) {
		config := &AppConfig{}
		config.Database.Port = 13306
		config.Database.ConnectTimeout = 2 * time.Second

		setDefaults(config)

		assert.Equal(t, 13306, config.Database.Port)
		assert.Equal(t, 2*time.Second, config.Database.ConnectTimeout)
	})
}

func TestConnectionString(t *testing.T) {
	t.Run("MySQL with password", func(t *testing.T) {
		dbs := &DatabaseSettings{
			Driver:   constants.DriverMySQL,
			Host:     "localhost",
			Port:     3306,
			Name:     "appdb",
			User:     "app",
			Password: "secret",
		}

		assert.Equal(t,
			"app:secret@tcp(localhost:3306)/appdb?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.ConnectionString(),
		)
	})

	t.Run("MySQL without password", func(t *testing.T) {
		dbs := &DatabaseSettings{
			Driver: constants.DriverMySQL,
			Host:   "localhost",
			Port:   3306,
			Name:   "appdb",
			User:   "app",
		}

		assert.Equal(t,
			"app@tcp(localhost:3306)/appdb?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.ConnectionString(),
		)
	})

	t.Run("Postgres", func(t *testing.T) {
		dbs := &DatabaseSettings{
			Driver:   constants.DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			Name:     "appdb",
			User:     "app",
			Password: "secret",
		}

		assert.Equal(t,
			"host=localhost port=5432 user=app password=secret dbname=appdb sslmode=disable",
			dbs.ConnectionString(),
		)
	})
}

func TestEnvironmentChecks(t *testing.T) {
	as := &AppSettings{Environment: "Development"}
	assert.True(t, as.IsDevelopment())
	assert.False(t, as.IsProduction())

	as.Environment = "PRODUCTION"
	assert.True(t, as.IsProduction())
	assert.False(t, as.IsDevelopment())
}
