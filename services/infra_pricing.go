// Package services provides the cost-calculation engine for infrastructure and
// labor line items, plus the export, import and script generators built on it.
package services

import (
	"math"
	"strings"
)

// Category groups infrastructure items on the dashboard.
type Category string

const (
	CategoryAppServer Category = "AppServer"
	CategoryDbServer  Category = "DbServer"
	CategoryOther     Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryAppServer, CategoryDbServer, CategoryOther}

// StorageTier is the storage backend an item's disks are billed against. Its
// value doubles as the UnitPriceTable key for that tier.
type StorageTier string

const (
	StorageSanAllFlash StorageTier = "diskSanAllFlash"
	StorageSanHDD      StorageTier = "diskSanHdd"
	StorageObject      StorageTier = "objectStorage"
)

// StorageTiers lists every storage tier in display order.
var StorageTiers = []StorageTier{StorageSanAllFlash, StorageSanHDD, StorageObject}

// StorageTierLabel returns the human-readable name of a tier.
func StorageTierLabel(t StorageTier) string {
	switch t {
	case StorageSanAllFlash:
		return "SAN All-Flash"
	case StorageSanHDD:
		return "SAN HDD"
	case StorageObject:
		return "Object Storage"
	}
	return string(t)
}

// PriceKey names one entry of a UnitPriceTable.
type PriceKey string

const (
	PriceCPU                    PriceKey = "cpu"
	PriceRAM                    PriceKey = "ram"
	PriceDiskSanAllFlash        PriceKey = PriceKey(StorageSanAllFlash)
	PriceDiskSanHDD             PriceKey = PriceKey(StorageSanHDD)
	PriceObjectStorage          PriceKey = PriceKey(StorageObject)
	PriceBandwidthInternational PriceKey = "bandwidthInternational"
	PriceBandwidthInternal      PriceKey = "bandwidthInternal"
	PriceOSWindows              PriceKey = "osWindows"
	PriceOSLinux                PriceKey = "osLinux"
)

// PriceKeys lists every key a UnitPriceTable holds.
var PriceKeys = []PriceKey{
	PriceCPU, PriceRAM,
	PriceDiskSanAllFlash, PriceDiskSanHDD, PriceObjectStorage,
	PriceBandwidthInternational, PriceBandwidthInternal,
	PriceOSWindows, PriceOSLinux,
}

// UnitPriceTable holds the monthly per-unit prices used to cost
// infrastructure: per core, per GB of RAM, per GB of each storage tier, per
// Mbps of each bandwidth class and per OS licence.
type UnitPriceTable struct {
	CPU                    float64 `json:"cpu"`
	RAM                    float64 `json:"ram"`
	DiskSanAllFlash        float64 `json:"diskSanAllFlash"`
	DiskSanHDD             float64 `json:"diskSanHdd"`
	ObjectStorage          float64 `json:"objectStorage"`
	BandwidthInternational float64 `json:"bandwidthInternational"`
	BandwidthInternal      float64 `json:"bandwidthInternal"`
	OSWindows              float64 `json:"osWindows"`
	OSLinux                float64 `json:"osLinux"`
}

// Price returns the price stored under key. Unknown keys and a nil table
// yield 0; this is the only place lookups default.
func (p *UnitPriceTable) Price(key PriceKey) float64 {
	if p == nil {
		return 0
	}
	var v float64
	switch key {
	case PriceCPU:
		v = p.CPU
	case PriceRAM:
		v = p.RAM
	case PriceDiskSanAllFlash:
		v = p.DiskSanAllFlash
	case PriceDiskSanHDD:
		v = p.DiskSanHDD
	case PriceObjectStorage:
		v = p.ObjectStorage
	case PriceBandwidthInternational:
		v = p.BandwidthInternational
	case PriceBandwidthInternal:
		v = p.BandwidthInternal
	case PriceOSWindows:
		v = p.OSWindows
	case PriceOSLinux:
		v = p.OSLinux
	}
	return finiteOrZero(v)
}

// SetPrice stores v under key. Unknown keys are ignored.
func (p *UnitPriceTable) SetPrice(key PriceKey, v float64) {
	switch key {
	case PriceCPU:
		p.CPU = v
	case PriceRAM:
		p.RAM = v
	case PriceDiskSanAllFlash:
		p.DiskSanAllFlash = v
	case PriceDiskSanHDD:
		p.DiskSanHDD = v
	case PriceObjectStorage:
		p.ObjectStorage = v
	case PriceBandwidthInternational:
		p.BandwidthInternational = v
	case PriceBandwidthInternal:
		p.BandwidthInternal = v
	case PriceOSWindows:
		p.OSWindows = v
	case PriceOSLinux:
		p.OSLinux = v
	}
}

// StoragePrice returns the per-GB price of tier. A zero price means unset:
// such a tier, or an unknown one, is billed at the SAN all-flash price, which
// may itself be 0. A tier cannot be made free while all-flash has a price.
func (p *UnitPriceTable) StoragePrice(tier StorageTier) float64 {
	if v := p.Price(PriceKey(tier)); v != 0 {
		return v
	}
	return p.Price(PriceDiskSanAllFlash)
}

// OSPrice returns the licence price for an operating system description. Any
// name containing "window" (case-insensitive) is billed as Windows, everything
// else as Linux.
func (p *UnitPriceTable) OSPrice(operatingSystem string) float64 {
	if IsWindows(operatingSystem) {
		return p.Price(PriceOSWindows)
	}
	return p.Price(PriceOSLinux)
}

// IsWindows reports whether an OS description names a Windows system.
func IsWindows(operatingSystem string) bool {
	return strings.Contains(strings.ToLower(operatingSystem), "window")
}

// InfrastructureItem is one server (or group of identical servers) in a
// project's infrastructure estimate.
type InfrastructureItem struct {
	ID                         string      `json:"id"`
	Category                   Category    `json:"category"`
	OperatingSystem            string      `json:"operatingSystem"`
	ConfigurationText          string      `json:"configuration"`
	Quantity                   int         `json:"quantity"`
	DisplayName                string      `json:"displayName"`
	Note                       string      `json:"note"`
	StorageTier                StorageTier `json:"storageTier"`
	InternationalBandwidthMbps float64     `json:"bandwidthInternational"`
	InternalBandwidthMbps      float64     `json:"bandwidthInternal"`
}

// MaxQuantity caps the number of identical servers on one item.
const MaxQuantity = 1000

// EffectiveQuantity is the number of units billed: non-positive quantities
// count as one.
func (it InfrastructureItem) EffectiveQuantity() int {
	if it.Quantity <= 0 {
		return 1
	}
	return it.Quantity
}

// CalculationResult is the monthly cost of one infrastructure item.
type CalculationResult struct {
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// CostBreakdown itemises the unit price of an infrastructure item.
type CostBreakdown struct {
	Resources              ResourceQuantity
	CPU                    float64
	RAM                    float64
	Storage                float64
	OS                     float64
	BandwidthInternational float64
	BandwidthInternal      float64
}

// UnitPrice sums every component of the breakdown.
func (b CostBreakdown) UnitPrice() float64 {
	return b.CPU + b.RAM + b.Storage + b.OS + b.BandwidthInternational + b.BandwidthInternal
}

// CalcItemBreakdown parses the item's configuration and prices each resource.
// A nil price table yields an all-zero breakdown.
func CalcItemBreakdown(item InfrastructureItem, prices *UnitPriceTable) CostBreakdown {
	res := ParseConfig(item.ConfigurationText)
	b := CostBreakdown{Resources: res}
	if prices == nil {
		return b
	}
	b.CPU = float64(res.CPUCores) * prices.Price(PriceCPU)
	b.RAM = float64(res.RAMGigabytes) * prices.Price(PriceRAM)
	b.Storage = float64(res.StorageGigabytes) * prices.StoragePrice(item.StorageTier)
	b.BandwidthInternational = finiteOrZero(item.InternationalBandwidthMbps) * prices.Price(PriceBandwidthInternational)
	b.BandwidthInternal = finiteOrZero(item.InternalBandwidthMbps) * prices.Price(PriceBandwidthInternal)
	b.OS = prices.OSPrice(item.OperatingSystem)
	return b
}

// CalcItemCost returns the monthly unit and total price of an infrastructure
// item. It never fails: missing prices and unparsable configuration count as 0.
func CalcItemCost(item InfrastructureItem, prices *UnitPriceTable) CalculationResult {
	unit := CalcItemBreakdown(item, prices).UnitPrice()
	return CalculationResult{
		UnitPrice:  unit,
		TotalPrice: unit * float64(item.EffectiveQuantity()),
	}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
