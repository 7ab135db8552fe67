// Package model defines the data structures shared by the database and
// report packages.
//
// ResultSet holds the rows of a query in column order. Values keep the
// types the SQLite driver returned so writers can decide how to render
// them; FormatValue gives the common text form.
package model
