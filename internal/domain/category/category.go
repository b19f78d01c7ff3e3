package category

import (
	"context"
	"slices"
)

// Vocabulary labels. Documents in the index are tagged with these values.
const (
	Infrastructure       = "Infrastructure"
	Architecture         = "Architecture"
	Security             = "Security"
	Networking           = "Networking"
	Compliance           = "Compliance"
	Integration          = "Integration"
	Data                 = "Data"
	Operation            = "Operation"
	Backup               = "Backup"
	Licenses             = "Licenses"
	Logging              = "Logging"
	ExceptionHandling    = "Exception Handling"
	AIAndMachineLearning = "AI and Machine Learning"
	Analytics            = "Analytics"
	Compute              = "Compute"
	Containers           = "Containers"
	DeveloperTools       = "Developer Tools"
	DevOps               = "DevOps"
	HybridCloud          = "Hybrid Cloud"
	Identity             = "Identity"
	IoT                  = "IoT"
	Messaging            = "Messaging"
	Monitoring           = "Monitoring"
	Storage              = "Storage"
	Web                  = "Web"
	Migration            = "Migration"
	VirtualDesktop       = "Virtual Desktop Infrastructure"
	Resiliency           = "Resiliency"
	DisasterRecovery     = "Disaster Recovery"
	Scaling              = "Scaling"
	Performance          = "Performance"
	Miscellaneous        = "Miscellaneous"
)

var vocabulary = []string{
	Infrastructure, Architecture, Security, Networking, Compliance, Integration, Data,
	Operation, Backup, Licenses, Logging, ExceptionHandling, AIAndMachineLearning,
	Analytics, Compute, Containers, DeveloperTools, DevOps, HybridCloud, Identity,
	IoT, Messaging, Monitoring, Storage, Web, Migration, VirtualDesktop,
	Resiliency, DisasterRecovery, Scaling, Performance, Miscellaneous,
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(vocabulary))
	for _, v := range vocabulary {
		m[v] = struct{}{}
	}
	return m
}()

// Vocabulary returns the fixed label list in prompt order.
func Vocabulary() []string {
	return slices.Clone(vocabulary)
}

// IsValid reports whether label belongs to the vocabulary.
func IsValid(label string) bool {
	_, ok := known[label]
	return ok
}

// Tier identifies which strategy produced a category set.
type Tier string

const (
	// TierLLM is a fresh language model classification.
	TierLLM Tier = "llm"
	// TierCache is a classification served from the cache.
	TierCache Tier = "cache"
	// TierKeyword is the deterministic keyword fallback.
	TierKeyword Tier = "keyword"
)

// Resolution is a category set together with the tier that produced it.
type Resolution struct {
	Categories Set
	Tier       Tier
}

// Categorizer infers categories for a query.
type Categorizer interface {
	Categorize(ctx context.Context, query string) (Resolution, error)
}
