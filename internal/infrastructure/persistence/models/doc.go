// Package models holds the GORM row types backing the directory tables.
//
// Domain entities stay free of ORM tags; each model here carries the
// column and index annotations and a pair of mapping helpers that
// convert to and from the corresponding domain type. Repositories only
// ever touch the database through these models.
package models
