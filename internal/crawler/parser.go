package crawler

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/unbisgraph/unbisgraph/internal/model"
)

// SKOS vocabulary keys used by the thesaurus JSON-LD documents.
const (
	keyID    = "@id"
	keyLang  = "@language"
	keyValue = "@value"

	// keyTitle carries labels for meta topics and top-level topics.
	keyTitle = "http://purl.org/dc/terms/title"

	// keyPrefLabel carries labels for subtopics.
	keyPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"

	// keyTopConcepts lists the topics under a meta topic.
	keyTopConcepts = "http://www.w3.org/2004/02/skos/core#hasTopConcept"

	// keyNarrower lists the subtopics under a topic.
	keyNarrower = "http://www.w3.org/2004/02/skos/core#narrower"

	// keyRelated lists non-hierarchical associations.
	keyRelated = "http://www.w3.org/2004/02/skos/core#related"

	// keyInScheme identifies the UNBIS domain (cluster) of a topic.
	keyInScheme = "http://www.w3.org/2004/02/skos/core#inScheme"
)

// TopicDocument is the parsed form of one thesaurus JSON-LD page:
// the topic's identity and labels plus the identifiers it references.
// Parsing is pure; the document carries no graph or crawl state.
type TopicDocument struct {
	// ID is the topic identifier extracted from the @id URL.
	ID model.TopicID

	// URL is the canonical topic URL (the @id value).
	URL string

	// Labels maps language tags to preferred labels.
	Labels map[string]string

	// Cluster is the UNBIS domain identifier, empty when the document
	// omits skos:inScheme.
	Cluster string

	// Subtopics are the directly referenced child identifiers
	// (skos:hasTopConcept and skos:narrower combined).
	Subtopics []model.TopicID

	// Related are the non-hierarchical associations (skos:related).
	Related []model.TopicID
}

// ParseTopicDocument decodes a thesaurus JSON-LD page. The thesaurus
// serves each topic as a one-element JSON array whose first object
// describes the topic; a bare object is accepted as well.
func ParseTopicDocument(data []byte) (*TopicDocument, error) {
	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(data, &objects); err != nil {
		// Some renditions serve a single object instead of an array.
		var object map[string]json.RawMessage
		if err := json.Unmarshal(data, &object); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		objects = []map[string]json.RawMessage{object}
	}
	if len(objects) == 0 {
		return nil, ErrEmptyDocument
	}
	object := objects[0]

	rawID, ok := object[keyID]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedDocument, keyID)
	}
	var url string
	if err := json.Unmarshal(rawID, &url); err != nil {
		return nil, fmt.Errorf("%w: %s is not a string", ErrMalformedDocument, keyID)
	}

	doc := &TopicDocument{
		ID:     extractIDFromURL(url),
		URL:    url,
		Labels: make(map[string]string),
	}

	// Meta topics and topics label via dcterms:title, subtopics via
	// skos:prefLabel. A document may carry either or both.
	for _, key := range []string{keyTitle, keyPrefLabel} {
		if raw, ok := object[key]; ok {
			if err := parseLabels(raw, doc.Labels); err != nil {
				return nil, err
			}
		}
	}

	doc.Subtopics = append(doc.Subtopics, parseReferences(object[keyTopConcepts])...)
	doc.Subtopics = append(doc.Subtopics, parseReferences(object[keyNarrower])...)
	doc.Related = parseReferences(object[keyRelated])

	if schemes := parseReferences(object[keyInScheme]); len(schemes) > 0 {
		doc.Cluster = string(schemes[0])
	}

	return doc, nil
}

// parseLabels decodes a list of {"@language": ..., "@value": ...}
// objects into the labels map.
func parseLabels(raw json.RawMessage, labels map[string]string) error {
	var entries []map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("%w: bad label list: %v", ErrMalformedDocument, err)
	}
	for _, entry := range entries {
		lang := entry[keyLang]
		value := entry[keyValue]
		if lang == "" || value == "" {
			continue
		}
		labels[lang] = value
	}
	return nil
}

// parseReferences decodes a list of {"@id": url} objects into topic
// identifiers. A missing or malformed list yields no references rather
// than an error: absent keys are how the thesaurus represents leaves.
func parseReferences(raw json.RawMessage) []model.TopicID {
	if raw == nil {
		return nil
	}
	var entries []map[string]string
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	ids := make([]model.TopicID, 0, len(entries))
	for _, entry := range entries {
		url, ok := entry[keyID]
		if !ok || url == "" {
			continue
		}
		ids = append(ids, extractIDFromURL(url))
	}
	return ids
}

// extractIDFromURL extracts the topic identifier from a thesaurus URL
// of the form http://metadata.un.org/thesaurus/{id}.
func extractIDFromURL(url string) model.TopicID {
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		return model.TopicID(url[i+1:])
	}
	return model.TopicID(url)
}

// ParseCategoriesPage extracts the meta topic identifiers from the
// thesaurus categories landing page. Meta topics are rendered as links
// with the "bc-link domain" classes whose text starts with the domain
// identifier, e.g. "01 - POLITICAL AND LEGAL QUESTIONS".
//
// Design decision: We use golang.org/x/net/html rather than regex
// because it correctly handles malformed HTML and gives us a proper
// tree to walk.
func ParseCategoriesPage(r io.Reader) ([]model.TopicID, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse categories page: %w", err)
	}

	seen := make(map[model.TopicID]struct{})
	var ids []model.TopicID

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClasses(n, "bc-link", "domain") {
			text := strings.TrimSpace(nodeText(n))
			if id, ok := domainIDFromText(text); ok {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					ids = append(ids, id)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return ids, nil
}

// hasClasses reports whether the node's class attribute contains all
// the given class names.
func hasClasses(n *html.Node, classes ...string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		have := strings.Fields(attr.Val)
		for _, want := range classes {
			found := false
			for _, cls := range have {
				if cls == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

// nodeText concatenates the text content of a node's subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// domainIDFromText extracts the domain identifier from a link text of
// the form "01 - POLITICAL AND LEGAL QUESTIONS".
func domainIDFromText(text string) (model.TopicID, bool) {
	id, _, found := strings.Cut(text, " - ")
	id = strings.TrimSpace(id)
	if !found || id == "" {
		return "", false
	}
	return model.TopicID(id), true
}
