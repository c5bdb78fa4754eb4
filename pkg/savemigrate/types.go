package savemigrate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SaveRecord is one row of the save table.
type SaveRecord struct {
	ID          int64
	Username    string
	SaveData    []byte
	LastUpdated time.Time
}

// MigrationConfig contains all parameters needed for a migration run.
type MigrationConfig struct {
	// SourceDir is the directory whose save files are migrated (not recursive).
	SourceDir string

	// Extension is the file name suffix that marks a save file, including the dot.
	Extension string

	// Table is the target table name.
	Table string

	// Connection describes the target database.
	Connection *ConnectionConfig

	// Timeout bounds the entire run. Zero disables it.
	Timeout time.Duration

	// DryRun reads and reports eligible files without touching the database.
	DryRun bool

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the MigrationConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *MigrationConfig) Validate() error {
	var errs []error

	if c.SourceDir == "" {
		errs = append(errs, fmt.Errorf("SourceDir is required: %w", ErrInvalidConfig))
	}

	if c.Extension == "" {
		errs = append(errs, fmt.Errorf("Extension is required: %w", ErrInvalidConfig))
	} else if !strings.HasPrefix(c.Extension, ".") {
		errs = append(errs, fmt.Errorf("Extension %q must start with a dot: %w", c.Extension, ErrInvalidConfig))
	}

	if err := ValidateTableName(c.Table); err != nil {
		errs = append(errs, err)
	}

	if c.Connection == nil && !c.DryRun {
		errs = append(errs, fmt.Errorf("Connection is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName reports whether name can be interpolated into DDL unquoted
// by every supported driver.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name is required: %w", ErrInvalidConfig)
	}
	if len(name) > MaxTableNameLength {
		return fmt.Errorf("table name %q exceeds %d characters: %w", name, MaxTableNameLength, ErrInvalidConfig)
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("table name %q must match %s: %w", name, tableNamePattern.String(), ErrInvalidConfig)
	}
	return nil
}

// UsernameFromFileName derives the natural key of a save file.
// Only the literal trailing extension is removed: "savage.sav" yields "savage",
// "a.sav.sav" yields "a.sav". ok is false when name does not end in ext.
// A name equal to ext yields "" with ok true; callers reject it via ValidateUsername.
func UsernameFromFileName(name, ext string) (username string, ok bool) {
	if ext == "" || !strings.HasSuffix(name, ext) {
		return "", false
	}
	return strings.TrimSuffix(name, ext), true
}

// ValidateUsername rejects usernames that cannot be stored consistently across drivers.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("empty username: %w", ErrInvalidUsername)
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("username is %d bytes, limit is %d: %w", len(username), MaxUsernameLength, ErrInvalidUsername)
	}
	return nil
}

// FileStatus is the outcome of migrating one save file.
type FileStatus int

const (
	FileMigrated FileStatus = iota // Upsert succeeded
	FileFailed                     // Read, validation or upsert failed
	FilePlanned                    // Dry run: would have been migrated
)

// String returns a human-readable string representation of the FileStatus.
func (s FileStatus) String() string {
	switch s {
	case FileMigrated:
		return "migrated"
	case FileFailed:
		return "failed"
	case FilePlanned:
		return "planned"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// FileResult records what happened to one eligible save file.
type FileResult struct {
	FileName string
	Username string
	Status   FileStatus
	Size     int64
	Checksum string // SHA-256 of the payload, empty when the file was not read
	Err      error
}

// Summary collects the per-file results of one synchronization run.
type Summary struct {
	RunID      uuid.UUID
	SourceDir  string
	StartedAt  time.Time
	FinishedAt time.Time

	// Results holds one entry per eligible file, in listing order.
	Results []FileResult

	// Skipped counts entries ignored because their name lacks the save extension.
	Skipped int

	// DirectoryErr is set when the source directory could not be listed.
	// No file was processed in that case.
	DirectoryErr error
}

// NewSummary starts an empty summary for sourceDir.
func NewSummary(sourceDir string, startedAt time.Time) *Summary {
	return &Summary{
		RunID:     uuid.New(),
		SourceDir: sourceDir,
		StartedAt: startedAt,
	}
}

// Migrated returns the number of files written to the table.
func (s *Summary) Migrated() int { return s.count(FileMigrated) }

// Failed returns the number of eligible files that could not be migrated.
func (s *Summary) Failed() int { return s.count(FileFailed) }

// Planned returns the number of files a dry run would migrate.
func (s *Summary) Planned() int { return s.count(FilePlanned) }

func (s *Summary) count(status FileStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Duration returns how long the run took.
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Driver identifies the database engine holding the save table.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverSQLite   Driver = "sqlite"
)

// ParseDriver normalises a driver name. The empty string selects PostgreSQL.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("%q (supported: postgres, mysql, sqlite): %w", s, ErrUnsupportedDriver)
	}
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	// Driver selects the database engine. PostgreSQL uses the granular fields below;
	// MySQL and SQLite use DSN.
	Driver Driver

	// DSN is the driver-native data source name for MySQL and SQLite.
	DSN string

	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// Client certificate authentication (mTLS)
	SSLCert     string
	SSLKey      string
	SSLRootCert string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance).
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodCertificate                    // mTLS
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodCertificate:
		return "Certificate"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
