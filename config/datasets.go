package config

import "time"

// ProfileDocumentFlags are the boolean document-type switches sent with
// every profile fetch. The upstream generator includes a matching document
// section per enabled flag.
type ProfileDocumentFlags struct {
	Aadhar   bool `env:"AADHAR"   envDefault:"true"  json:"aadhar"`
	DL       bool `env:"DL"       envDefault:"true"  json:"dl"`
	Credit   bool `env:"CREDIT"   envDefault:"true"  json:"credit"`
	Debit    bool `env:"DEBIT"    envDefault:"true"  json:"debit"`
	PAN      bool `env:"PAN"      envDefault:"true"  json:"pan"`
	Passport bool `env:"PASSPORT" envDefault:"true"  json:"passport"`
	SSN      bool `env:"SSN"      envDefault:"false" json:"ssn"`
}

// DatasetsConfig describes the two remote dataset endpoints and their fetch
// policy. The two datasets are fetched independently and carry independent
// stale/expiry lifetimes.
type DatasetsConfig struct {
	// ProfileURL is the profile dataset endpoint.
	ProfileURL string `env:"PROFILE_URL" envDefault:"https://7q3k6vhat1.execute-api.ap-south-1.amazonaws.com/dev/profile"`

	// CardURL is the payment-card dataset endpoint.
	CardURL string `env:"CARD_URL" envDefault:"https://7q3k6vhat1.execute-api.ap-south-1.amazonaws.com/dev/card/credit"`

	// ProfileCount and CardCount are the record counts requested per fetch.
	ProfileCount int `env:"PROFILE_COUNT" envDefault:"150"`
	CardCount    int `env:"CARD_COUNT"    envDefault:"250"`

	// CountryCode is the locale passed to the upstream generator.
	CountryCode string `env:"COUNTRY_CODE" envDefault:"en_IN"`

	// ProfileDocuments are the document-type flags for profile fetches.
	ProfileDocuments ProfileDocumentFlags `envPrefix:"PROFILE_DOC_"`

	// Timeout bounds a single fetch attempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// MaxRetries is the number of retries after a failed attempt.
	// Retries are bounded; there is no unbounded retry loop.
	MaxRetries int `env:"MAX_RETRIES" envDefault:"2"`

	// StaleAfter is how long a fetched dataset stays fresh. A stale
	// snapshot triggers a refetch on next access.
	StaleAfter time.Duration `env:"STALE_AFTER" envDefault:"5m"`

	// EvictAfter is how long an unused dataset survives in the cache.
	EvictAfter time.Duration `env:"EVICT_AFTER" envDefault:"10m"`
}

// Sanitize applies guardrails to dataset configuration values.
func (d *DatasetsConfig) Sanitize() {
	if d.ProfileCount < 1 {
		d.ProfileCount = 1
	}
	if d.CardCount < 1 {
		d.CardCount = 1
	}
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
	if d.MaxRetries < 0 {
		d.MaxRetries = 0
	}
	if d.StaleAfter <= 0 {
		d.StaleAfter = 5 * time.Minute
	}
	if d.EvictAfter < d.StaleAfter {
		d.EvictAfter = 2 * d.StaleAfter
	}
}
