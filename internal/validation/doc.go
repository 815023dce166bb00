// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

// Package validation wraps go-playground/validator v10 behind a thread-safe
// singleton.
//
// The geocore client validates geo search arguments with it before any
// request is built, and the config package validates loaded settings.
// Besides the built-in tags, "geocoreid" accepts ids of the form
// PRO-EXAMPLE-1.
//
//	type circle struct {
//	    Latitude  *float64 `validate:"required,latitude"`
//	    Longitude *float64 `validate:"required,longitude"`
//	    Radius    *float64 `validate:"required,gt=0"`
//	}
//
//	if verr := validation.ValidateStruct(&c); verr != nil {
//	    return verr.Fields()
//	}
package validation
