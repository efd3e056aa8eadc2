package model

// Cluster describes one of the top-level UNBIS domains. The key matches
// the two-digit prefix of topic identifiers within the domain.
type Cluster struct {
	Key   string `json:"key"`
	Label string `json:"clusterLabel"`
	Color string `json:"color"`
}

// KnownClusters lists the 18 UNBIS domains published by the thesaurus.
// Exported graph documents embed this table so that visualization
// frontends can color nodes without a separate lookup.
var KnownClusters = []Cluster{
	{Key: "01", Label: "POLITICAL AND LEGAL QUESTIONS", Color: "#f44336"},
	{Key: "02", Label: "ECONOMIC DEVELOPMENT AND DEVELOPMENT FINANCE", Color: "#9c27b0"},
	{Key: "03", Label: "NATURAL RESOURCES AND THE ENVIRONMENT", Color: "#3f51b5"},
	{Key: "04", Label: "AGRICULTURE, FORESTRY AND FISHING", Color: "#2196f3"},
	{Key: "05", Label: "INDUSTRY", Color: "#009688"},
	{Key: "06", Label: "TRANSPORT AND COMMUNICATIONS", Color: "#4caf50"},
	{Key: "07", Label: "INTERNATIONAL TRADE", Color: "#8bc34a"},
	{Key: "08", Label: "POPULATION", Color: "#cddc39"},
	{Key: "09", Label: "HUMAN SETTLEMENTS", Color: "#ffeb3b"},
	{Key: "10", Label: "HEALTH", Color: "#ffc107"},
	{Key: "11", Label: "EDUCATION", Color: "#ff9800"},
	{Key: "12", Label: "EMPLOYMENT", Color: "#ff5722"},
	{Key: "13", Label: "HUMANITARIAN AID AND RELIEF", Color: "#795548"},
	{Key: "14", Label: "SOCIAL CONDITIONS AND EQUITY", Color: "#9e9e9e"},
	{Key: "15", Label: "CULTURE", Color: "#607d8b"},
	{Key: "16", Label: "SCIENCE AND TECHNOLOGY", Color: "#e91e63"},
	{Key: "17", Label: "GEOGRAPHICAL DESCRIPTORS", Color: "#673ab7"},
	{Key: "18", Label: "ORGANIZATIONAL QUESTIONS", Color: "#795548"},
}
