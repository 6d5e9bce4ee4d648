// Package models contains GORM persistence models that map to the store's
// tables. Domain records stay free of ORM tags; each model converts with
// ToDomain and FromDomain.
package models
