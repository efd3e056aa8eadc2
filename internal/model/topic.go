package model

import (
	"fmt"

	"golang.org/x/text/language"
)

// BaseURL is the canonical URL template for thesaurus entries.
// The %s placeholder is the topic identifier.
const BaseURL = "http://metadata.un.org/thesaurus/%s"

// TopicID is the opaque identifier of a thesaurus entry, e.g. "020200".
// Identifiers are stable for the lifetime of a crawl and are the unit of
// deduplication: each TopicID is fetched at most once.
type TopicID string

// String returns the identifier as a plain string.
func (id TopicID) String() string { return string(id) }

// URL returns the canonical thesaurus URL for this identifier.
func (id TopicID) URL() string { return fmt.Sprintf(BaseURL, string(id)) }

// NodeType classifies a topic within the thesaurus hierarchy.
type NodeType string

// Node types, from the root of the hierarchy down.
const (
	// NodeTypeMetaTopic is one of the top-level UNBIS domains
	// (e.g. "POLITICAL AND LEGAL QUESTIONS").
	NodeTypeMetaTopic NodeType = "meta_topic"

	// NodeTypeTopic is a top concept directly under a meta topic.
	NodeTypeTopic NodeType = "topic"

	// NodeTypeSubtopic is any concept discovered below a topic.
	NodeTypeSubtopic NodeType = "subtopic"
)

// EdgeType classifies the relation between two topics.
type EdgeType string

// Edge types. HasSubtopic covers both meta_topic->topic and
// topic->subtopic relations (skos:hasTopConcept and skos:narrower);
// RelatedTo is the non-hierarchical skos:related association.
const (
	EdgeTypeHasSubtopic EdgeType = "has_subtopic"
	EdgeTypeRelatedTo   EdgeType = "related_to"
)

// Topic is one entry in the thesaurus. A Topic is created once, when the
// page describing it is first fetched, and is immutable afterwards.
type Topic struct {
	// ID is the unique thesaurus identifier.
	ID TopicID `json:"key"`

	// URL is the canonical page URL for the topic.
	URL string `json:"url"`

	// Cluster is the identifier of the UNBIS domain the topic belongs to
	// (skos:inScheme). Empty when the source document omits it.
	Cluster string `json:"cluster,omitempty"`

	// Type classifies the topic within the hierarchy.
	Type NodeType `json:"node_type"`

	// Labels holds the preferred label per language tag.
	// The thesaurus publishes the six official UN languages.
	Labels map[string]string `json:"labels,omitempty"`
}

// unLanguageTags are the six official UN languages in thesaurus
// publication order. The matcher index corresponds to unLanguageKeys.
var (
	unLanguageTags = []language.Tag{
		language.English,
		language.French,
		language.Spanish,
		language.Russian,
		language.Arabic,
		language.SimplifiedChinese,
	}
	unLanguageKeys = []string{"en", "fr", "es", "ru", "ar", "zh"}
	displayMatcher = language.NewMatcher(unLanguageTags)
)

// Label returns the best display label for the given language preference
// (a BCP 47 tag such as "fr" or "zh-Hans"). An empty or unparseable
// preference falls back to English. Returns the identifier when the
// topic carries no labels at all (a node that was referenced but never
// fetched).
func (t Topic) Label(prefer string) string {
	if len(t.Labels) == 0 {
		return string(t.ID)
	}

	want := language.English
	if prefer != "" {
		if tag, err := language.Parse(prefer); err == nil {
			want = tag
		}
	}

	_, index, _ := displayMatcher.Match(want)
	if label := t.Labels[unLanguageKeys[index]]; label != "" {
		return label
	}

	// Preference could not be honoured; walk the publication order.
	for _, key := range unLanguageKeys {
		if label := t.Labels[key]; label != "" {
			return label
		}
	}
	for _, label := range t.Labels {
		if label != "" {
			return label
		}
	}
	return string(t.ID)
}

// Edge is a directed relation between two topics. Source and Target
// reference topics by identifier; the target may be a topic that was
// never successfully fetched (its inbound edges are kept regardless).
type Edge struct {
	Source TopicID  `json:"source"`
	Target TopicID  `json:"target"`
	Type   EdgeType `json:"edge_type"`
}
