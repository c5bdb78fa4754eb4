package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/savemigrate/internal/config"
	"github.com/vvka-141/savemigrate/internal/db"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// connectionFlags holds the common connection-related flag values.
type connectionFlags struct {
	connection     string
	driver         string
	host           string
	port           int
	username       string
	database       string
	sslMode        string
	azure          bool
	azureTenantID  string
	azureClientID  string
	aws            bool
	awsRegion      string
	google         bool
	googleInstance string
	sslCert        string
	sslKey         string
	sslRootCert    string
}

// registerConnectionFlags binds the connection flags shared by migrate and status.
func registerConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	// Connection string flag (mutually exclusive with granular flags)
	cmd.Flags().StringVar(&f.connection, "connection", "",
		"Connection string: postgresql://..., mysql://..., sqlite://path or ADO.NET format.\n"+
			"Mutually exclusive with granular flags (--host, --port, --username).\n"+
			"Alternative: SAVEMIGRATE_CONNECTION_STRING or DATABASE_URL environment variable.\n"+
			"Example: postgresql://game@localhost:5432/saves")
	cmd.Flags().StringVar(&f.driver, "driver", "",
		"Database driver: postgres|mysql|sqlite\n"+
			"(default: from the connection string scheme, connection.driver, or postgres)")

	// Granular connection flags (PostgreSQL standard)
	// Precedence: flag > environment variable > savemigrate.yaml > default
	cmd.Flags().StringVarP(&f.host, "host", "h", "",
		"Database server host\n"+
			"Precedence: --host > $PGHOST > localhost")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0,
		"Database server port\n"+
			"Precedence: --port > $PGPORT > 5432 (3306 for mysql)")
	cmd.Flags().StringVarP(&f.username, "username", "U", "",
		"Database user (default: $PGUSER or current OS user)")
	cmd.Flags().StringVarP(&f.database, "database", "d", "",
		"Database name, or the database file for sqlite (default: $PGDATABASE)")
	cmd.Flags().StringVar(&f.sslMode, "sslmode", "",
		"SSL mode: disable|allow|prefer|require|verify-ca|verify-full\n"+
			"(default: prefer, or $PGSSLMODE)")

	// Azure Entra ID flags
	cmd.Flags().BoolVar(&f.azure, "azure", false,
		"Enable Azure Entra ID authentication\n"+
			"Uses DefaultAzureCredential chain (Managed Identity, Azure CLI, etc.)")
	cmd.Flags().StringVar(&f.azureTenantID, "azure-tenant-id", "",
		"Azure AD tenant/directory ID (overrides $AZURE_TENANT_ID)")
	cmd.Flags().StringVar(&f.azureClientID, "azure-client-id", "",
		"Azure AD application/client ID (overrides $AZURE_CLIENT_ID)")

	// AWS RDS IAM flags
	cmd.Flags().BoolVar(&f.aws, "aws", false,
		"Enable AWS RDS IAM authentication")
	cmd.Flags().StringVar(&f.awsRegion, "aws-region", "",
		"AWS region of the RDS instance (overrides $AWS_REGION)")

	// Google Cloud SQL IAM flags
	cmd.Flags().BoolVar(&f.google, "google", false,
		"Enable Google Cloud SQL IAM authentication")
	cmd.Flags().StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance)")

	// Client certificate flags
	cmd.Flags().StringVar(&f.sslCert, "sslcert", "",
		"Client certificate file (enables certificate authentication with --sslkey)")
	cmd.Flags().StringVar(&f.sslKey, "sslkey", "",
		"Client private key file")
	cmd.Flags().StringVar(&f.sslRootCert, "sslrootcert", "",
		"Root CA certificate file used to verify the server")
}

// loadProjectConfig loads .env and savemigrate.yaml. path may be empty (the
// working directory is searched) and a missing file yields a nil config.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if path == "" {
		path = "."
	}
	projectCfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w: %w", config.ConfigFileName, savemigrate.ErrInvalidConfig, err)
	}
	return projectCfg, nil
}

// resolveConnectionFromFlags resolves connection configuration from flags,
// environment and project config.
func resolveConnectionFromFlags(
	flags connectionFlags,
	projectCfg *config.ProjectConfig,
) (*savemigrate.ConnectionConfig, error) {
	granularFlags := &db.GranularConnFlags{
		Host:     flags.host,
		Port:     flags.port,
		Username: flags.username,
		Database: flags.database,
		SSLMode:  flags.sslMode,
	}

	authFlags := &db.AuthFlags{
		Azure: db.AzureFlags{
			Enabled:  flags.azure,
			TenantID: flags.azureTenantID,
			ClientID: flags.azureClientID,
		},
		AWS: db.AWSFlags{
			Enabled: flags.aws,
			Region:  flags.awsRegion,
		},
		Google: db.GoogleFlags{
			Enabled:  flags.google,
			Instance: flags.googleInstance,
		},
		Cert: db.CertFlags{
			SSLCert:     flags.sslCert,
			SSLKey:      flags.sslKey,
			SSLRootCert: flags.sslRootCert,
		},
	}

	return db.ResolveConnectionParams(
		flags.connection,
		flags.driver,
		granularFlags,
		authFlags,
		db.LoadFromEnvironment(),
		projectCfg,
	)
}

// printResolvedConnection writes the resolved target without its password.
func printResolvedConnection(w io.Writer, conn *savemigrate.ConnectionConfig) {
	fmt.Fprintf(w, "[VERBOSE] Connection resolved:\n")
	fmt.Fprintf(w, "  Driver: %s\n", conn.Driver)
	if conn.Driver == savemigrate.DriverSQLite {
		fmt.Fprintf(w, "  Database File: %s\n", firstNonEmpty(conn.Database, conn.DSN))
		return
	}
	fmt.Fprintf(w, "  Host: %s\n", conn.Host)
	fmt.Fprintf(w, "  Port: %d\n", conn.Port)
	fmt.Fprintf(w, "  User: %s\n", conn.Username)
	fmt.Fprintf(w, "  Database: %s\n", conn.Database)
	if conn.Driver == savemigrate.DriverPostgres {
		fmt.Fprintf(w, "  SSL Mode: %s\n", conn.SSLMode)
	}
	fmt.Fprintf(w, "  Auth Method: %s\n", conn.AuthMethod)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
