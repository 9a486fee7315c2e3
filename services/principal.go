package services

// Principal is the authenticated caller on whose behalf a lifecycle operation runs.
// It is passed explicitly into every mutating operation.
type Principal struct {
	Subject string
}

// SystemPrincipal is used for mutations that are not driven by an API caller
var SystemPrincipal = Principal{Subject: "system"}
