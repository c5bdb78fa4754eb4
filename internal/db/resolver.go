package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/savemigrate/internal/config"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use $PGPASSWORD (PostgreSQL), $MYSQL_PWD (MySQL), .pgpass, or a
// connection string with an embedded password instead.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded because it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AzureFlags represents Azure Entra ID CLI flags.
// Client secret is NOT a CLI flag; use AZURE_CLIENT_SECRET.
type AzureFlags struct {
	Enabled  bool
	TenantID string
	ClientID string
}

// AWSFlags represents AWS RDS IAM CLI flags.
type AWSFlags struct {
	Enabled bool
	Region  string
}

// GoogleFlags represents Google Cloud SQL IAM CLI flags.
type GoogleFlags struct {
	Enabled  bool
	Instance string
}

// CertFlags represents client certificate (mTLS) CLI flags.
type CertFlags struct {
	SSLCert     string
	SSLKey      string
	SSLRootCert string
}

// AuthFlags groups the authentication-related flags.
type AuthFlags struct {
	Azure  AzureFlags
	AWS    AWSFlags
	Google GoogleFlags
	Cert   CertFlags
}

// EnvVars represents the environment variables consulted during resolution.
type EnvVars struct {
	ConnectionString string // SAVEMIGRATE_CONNECTION_STRING
	DatabaseURL      string // DATABASE_URL

	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	MySQLPassword string // MYSQL_PWD

	AWSRegion string // AWS_REGION

	AzureTenantID     string // AZURE_TENANT_ID
	AzureClientID     string // AZURE_CLIENT_ID
	AzureClientSecret string // AZURE_CLIENT_SECRET
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		ConnectionString:  os.Getenv("SAVEMIGRATE_CONNECTION_STRING"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		PGHOST:            os.Getenv("PGHOST"),
		PGPORT:            os.Getenv("PGPORT"),
		PGUSER:            os.Getenv("PGUSER"),
		PGPASSWORD:        os.Getenv("PGPASSWORD"),
		PGDATABASE:        os.Getenv("PGDATABASE"),
		PGSSLMODE:         os.Getenv("PGSSLMODE"),
		MySQLPassword:     os.Getenv("MYSQL_PWD"),
		AWSRegion:         os.Getenv("AWS_REGION"),
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnectionParams resolves the target database with this precedence:
//
//  1. --connection flag
//  2. granular flags (-h, -p, -U, -d), merged with PG* variables
//  3. SAVEMIGRATE_CONNECTION_STRING, then DATABASE_URL
//  4. PG* environment variables
//  5. savemigrate.yaml (connection.dsn, then granular fields)
//  6. defaults (localhost:5432, sslmode prefer)
//
// driverFlag (or connection.driver in savemigrate.yaml) selects the engine.
// A connection string with a recognised scheme implies its driver; a
// scheme-less string is taken as a native DSN of the selected driver.
//
// Specifying both --connection and granular flags is an error.
func ResolveConnectionParams(
	connStringFlag string,
	driverFlag string,
	granularFlags *GranularConnFlags,
	authFlags *AuthFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*savemigrate.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if authFlags == nil {
		authFlags = &AuthFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/saves\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d saves\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser: %w",
			savemigrate.ErrInvalidConfig,
		)
	}

	explicitDriver := driverFlag
	if explicitDriver == "" {
		explicitDriver = pc.Driver
	}

	connString := connStringFlag
	if connString == "" && granularFlags.IsEmpty() {
		switch {
		case envVars.ConnectionString != "":
			connString = envVars.ConnectionString
		case envVars.DatabaseURL != "":
			connString = envVars.DatabaseURL
		case envVars.PGHOST == "" && pc.DSN != "":
			connString = pc.DSN
		}
	}

	var cfg *savemigrate.ConnectionConfig
	var err error
	if connString != "" {
		cfg, err = resolveFromConnectionString(connString, explicitDriver, envVars)
	} else {
		cfg, err = resolveFromGranularParams(explicitDriver, granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, err
	}

	if granularFlags.Database != "" && cfg.Driver != savemigrate.DriverSQLite && cfg.DSN == "" {
		cfg.Database = granularFlags.Database
	}

	if cfg.Driver == savemigrate.DriverPostgres && cfg.AppName == "" {
		cfg.AppName = savemigrate.DefaultAppName
	}

	if err := applyAuth(cfg, authFlags, envVars, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveFromConnectionString parses connStr, honouring an explicit driver.
// PGSSLMODE applies when a PostgreSQL string names no sslmode.
func resolveFromConnectionString(connStr, explicitDriver string, envVars *EnvVars) (*savemigrate.ConnectionConfig, error) {
	var driver savemigrate.Driver
	if explicitDriver != "" {
		d, err := savemigrate.ParseDriver(explicitDriver)
		if err != nil {
			return nil, err
		}
		driver = d
	}

	var cfg *savemigrate.ConnectionConfig
	var err error
	switch {
	case driver == savemigrate.DriverMySQL && !strings.Contains(connStr, "://"):
		cfg, err = parseMySQLDSN(connStr)
	case driver == savemigrate.DriverSQLite && !strings.Contains(connStr, "://") && !strings.HasPrefix(connStr, sqliteFile):
		cfg, err = parseSQLiteDSN(connStr)
	default:
		cfg, err = ParseConnectionString(connStr)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w: %w", savemigrate.ErrInvalidConfig, err)
	}

	if driver != "" && cfg.Driver != driver {
		return nil, fmt.Errorf("connection string is for %s but driver %s was requested: %w", cfg.Driver, driver, savemigrate.ErrInvalidConfig)
	}

	if cfg.Driver == savemigrate.DriverPostgres && cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMODE
		if cfg.SSLMode == "" {
			cfg.SSLMode = "prefer"
		}
	}

	return cfg, nil
}

// resolveFromGranularParams builds a config from flags, environment and
// savemigrate.yaml. Each field uses flag > environment > file > default.
func resolveFromGranularParams(
	explicitDriver string,
	flags *GranularConnFlags,
	envVars *EnvVars,
	pc config.ConnectionConfig,
) (*savemigrate.ConnectionConfig, error) {
	driver, err := savemigrate.ParseDriver(explicitDriver)
	if err != nil {
		return nil, err
	}

	cfg := &savemigrate.ConnectionConfig{
		Driver:           driver,
		AuthMethod:       savemigrate.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	if driver == savemigrate.DriverSQLite {
		cfg.Database = firstNonEmpty(flags.Database, pc.Database)
		if cfg.Database == "" {
			return nil, fmt.Errorf("SQLite requires a database file (-d saves.db or --connection sqlite://saves.db): %w", savemigrate.ErrInvalidConfig)
		}
		return cfg, nil
	}

	// PG* variables only describe PostgreSQL targets.
	env := envVars
	if driver != savemigrate.DriverPostgres {
		env = &EnvVars{}
	}

	cfg.Host = firstNonEmpty(flags.Host, env.PGHOST, pc.Host, "localhost")

	defaultPort := 5432
	if driver == savemigrate.DriverMySQL {
		defaultPort = 3306
	}
	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case env.PGPORT != "":
		port, err := strconv.Atoi(env.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", env.PGPORT, savemigrate.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = defaultPort
	}

	cfg.Username = firstNonEmpty(flags.Username, env.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Database = firstNonEmpty(flags.Database, env.PGDATABASE, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, env.PGSSLMODE, pc.SSLMode, "prefer")

	switch driver {
	case savemigrate.DriverMySQL:
		cfg.Password = envVars.MySQLPassword
	default:
		cfg.Password = envVars.PGPASSWORD
		if cfg.Database == "" {
			cfg.Database = savemigrate.DefaultManagementDB
		}
	}

	return cfg, nil
}

// applyAuth selects the authentication method. Flags win over
// savemigrate.yaml, which wins over Azure environment variables.
func applyAuth(cfg *savemigrate.ConnectionConfig, flags *AuthFlags, env *EnvVars, pc config.ConnectionConfig) error {
	cfg.SSLCert = firstNonEmpty(flags.Cert.SSLCert, cfg.SSLCert, pc.SSLCert)
	cfg.SSLKey = firstNonEmpty(flags.Cert.SSLKey, cfg.SSLKey, pc.SSLKey)
	cfg.SSLRootCert = firstNonEmpty(flags.Cert.SSLRootCert, cfg.SSLRootCert, pc.SSLRootCert)
	if cfg.SSLCert != "" && cfg.SSLKey != "" && cfg.AuthMethod == savemigrate.AuthMethodStandard {
		cfg.AuthMethod = savemigrate.AuthMethodCertificate
	}

	method, err := ParseAuthMethod(pc.AuthMethod)
	if err != nil {
		return err
	}

	tenantID := firstNonEmpty(flags.Azure.TenantID, pc.AzureTenantID, env.AzureTenantID)
	clientID := firstNonEmpty(flags.Azure.ClientID, pc.AzureClientID, env.AzureClientID)

	selected := 0
	for _, on := range []bool{flags.Azure.Enabled, flags.AWS.Enabled, flags.Google.Enabled} {
		if on {
			selected++
		}
	}
	if selected > 1 {
		return fmt.Errorf("--azure, --aws and --google are mutually exclusive: %w", savemigrate.ErrInvalidConfig)
	}

	switch {
	case flags.Azure.Enabled:
		method = savemigrate.AuthMethodAzureEntraID
	case flags.AWS.Enabled:
		method = savemigrate.AuthMethodAWSIAM
	case flags.Google.Enabled:
		method = savemigrate.AuthMethodGoogleIAM
	case method == savemigrate.AuthMethodStandard && cfg.Driver == savemigrate.DriverPostgres && (env.AzureTenantID != "" || env.AzureClientID != ""):
		method = savemigrate.AuthMethodAzureEntraID
	}

	switch method {
	case savemigrate.AuthMethodStandard, savemigrate.AuthMethodCertificate:
		return nil
	case savemigrate.AuthMethodAzureEntraID:
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		cfg.AzureClientSecret = env.AzureClientSecret
	case savemigrate.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWS.Region, pc.AWSRegion, env.AWSRegion)
	case savemigrate.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.Google.Instance, pc.GoogleInstance)
	}
	cfg.AuthMethod = method
	return nil
}

// ParseAuthMethod maps the auth_method setting of savemigrate.yaml.
func ParseAuthMethod(s string) (savemigrate.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return savemigrate.AuthMethodStandard, nil
	case "certificate", "cert", "mtls":
		return savemigrate.AuthMethodCertificate, nil
	case "aws", "aws-iam", "aws_iam":
		return savemigrate.AuthMethodAWSIAM, nil
	case "google", "google-iam", "google_iam", "gcp":
		return savemigrate.AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id", "azure_entra_id":
		return savemigrate.AuthMethodAzureEntraID, nil
	}
	return savemigrate.AuthMethodStandard, fmt.Errorf("unknown auth_method %q: %w", s, savemigrate.ErrUnsupportedAuthMethod)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
