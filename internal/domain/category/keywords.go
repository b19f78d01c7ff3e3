package category

import "strings"

// keywordRule maps a category to the substrings that select it.
type keywordRule struct {
	category string
	keywords []string
}

var keywordRules = []keywordRule{
	{Networking, []string{"network", "networking", "vpc", "subnet", "firewall", "dns", "ingress", "load balancer"}},
	{Containers, []string{"container", "docker", "kubernetes", "k8s", "pod", "aks", "cluster"}},
	{Architecture, []string{"architecture", "design", "pattern", "structure", "topology", "hub", "spoke"}},
	{Security, []string{"security", "secure", "protection", "threat", "vulnerability"}},
	{Infrastructure, []string{"infrastructure", "infra", "deployment", "provisioning", "landing zone"}},
	{Compliance, []string{"compliance", "regulatory", "audit", "governance"}},
	{Monitoring, []string{"monitoring", "observability", "logging", "metrics"}},
	{DevOps, []string{"devops", "ci/cd", "pipeline", "automation"}},
	{AIAndMachineLearning, []string{"ai", "machine learning", "ml", "artificial intelligence"}},
}

// FromKeywords selects every category with a keyword occurring as a
// substring of the lower-cased query. It never returns an empty set.
func FromKeywords(query string) Set {
	q := strings.ToLower(query)
	s := make(Set)
	for _, r := range keywordRules {
		for _, kw := range r.keywords {
			if strings.Contains(q, kw) {
				s.Add(r.category)
				break
			}
		}
	}
	if s.IsEmpty() {
		return Default()
	}
	return s
}
