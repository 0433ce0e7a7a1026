// Package sqlite keeps batch reports and solutions in a SQLite database.
package sqlite
