// Package services composes a migration run: the SchemaEnsurer prepares the
// save table, then the Synchronizer copies every save file of the source
// directory into it, one file at a time. MigrationService wires both to a
// store opened from the run's connection settings.
package services
