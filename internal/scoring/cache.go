package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/jonathan/gig-directory-audit/internal/types"
)

// Cache memoizes assessments keyed by a content hash of the evaluated fields.
// An entry is reused only while the record's content is unchanged; mutated
// records must be dropped with Invalidate. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]cacheEntry
}

type cacheEntry struct {
	hash       string
	assessment types.RiskAssessment
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[int64]cacheEntry)}
}

// evaluatedFields is the subset of a record detectors read. Active state and
// timestamps are excluded so a deactivation alone does not change the hash.
type evaluatedFields struct {
	Name                  string   `json:"name"`
	Website               *string  `json:"website"`
	ContactPhone          *string  `json:"contact_phone"`
	ContactEmail          *string  `json:"contact_email"`
	ServiceVertical       []string `json:"service_vertical"`
	ContractType          string   `json:"contract_type"`
	AveragePay            *string  `json:"average_pay"`
	VehicleTypes          []string `json:"vehicle_types"`
	AreasServed           []string `json:"areas_served"`
	InsuranceRequirements *string  `json:"insurance_requirements"`
	LicenseRequirements   *string  `json:"license_requirements"`
	Description           *string  `json:"description"`
}

// ContentHash returns the hex SHA-256 of the fields detectors evaluate
func ContentHash(record *types.CompanyRecord) string {
	data, _ := json.Marshal(evaluatedFields{
		Name:                  record.Name,
		Website:               record.Website,
		ContactPhone:          record.ContactPhone,
		ContactEmail:          record.ContactEmail,
		ServiceVertical:       record.ServiceVertical,
		ContractType:          record.ContractType,
		AveragePay:            record.AveragePay,
		VehicleTypes:          record.VehicleTypes,
		AreasServed:           record.AreasServed,
		InsuranceRequirements: record.InsuranceRequirements,
		LicenseRequirements:   record.LicenseRequirements,
		Description:           record.Description,
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached assessment if the record content is unchanged
func (c *Cache) Get(record *types.CompanyRecord) (types.RiskAssessment, bool) {
	hash := ContentHash(record)

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[record.ID]
	if !ok || entry.hash != hash {
		return types.RiskAssessment{}, false
	}
	return entry.assessment, true
}

// Put stores an assessment under the record's current content hash
func (c *Cache) Put(record *types.CompanyRecord, assessment types.RiskAssessment) {
	hash := ContentHash(record)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[record.ID] = cacheEntry{hash: hash, assessment: assessment}
}

// Invalidate drops cached assessments for the given ids
func (c *Cache) Invalidate(ids ...int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.entries, id)
	}
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
