// Package models holds the GORM row types. Each model converts to and from
// its domain aggregate with ToDomain and a ...FromDomain constructor, so the
// domain packages never import gorm.
package models
