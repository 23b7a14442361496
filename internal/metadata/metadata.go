// Package metadata derives document metadata, role tags, and location
// hierarchy from the filename convention used by the document uploader:
//
//	<Standard>-Part<N>_<...>_<Department>_<Language>[_Site*][_Area*][_Line*].{pdf|docx}
//
// All functions are pure and never fail; missing structural pieces degrade
// to named defaults.
package metadata

import (
	"strings"
)

// Standard is the document standard recorded on every ingested file.
const Standard = "ISA-95"

// StructureType classifies stored points; reserved for future multi-standard support.
const StructureType = "ISA-95"

// Defaults used when the filename does not carry the corresponding token.
const (
	DefaultPart       = "Unknown"
	DefaultDepartment = "Unknown"
	DefaultLanguage   = "cs"
)

// Metadata holds the fields derived from a filename.
type Metadata struct {
	Standard   string `json:"standard"`
	Part       string `json:"part"`
	Department string `json:"department"`
	Language   string `json:"language"`
}

// Location is an ordered hierarchy of Site/Area/Line tokens from a filename.
type Location struct {
	Hierarchy  []string `json:"hierarchy"`
	CustomPath string   `json:"custom_path"`
}

// roleMap maps a department to its advisory role tags. Unknown departments
// fall back to {"user"}. These tags are classification only, not enforced
// access control.
var roleMap = map[string][]string{
	"QA":         {"quality", "engineer"},
	"Production": {"operator", "engineer"},
	"IT":         {"admin", "developer"},
	"Logistics":  {"planner", "operator"},
}

// stripExtension removes the supported document extensions from a filename.
func stripExtension(fileName string) string {
	name := strings.ReplaceAll(fileName, ".pdf", "")
	return strings.ReplaceAll(name, ".docx", "")
}

// ExtractFromFilename parses the underscore-delimited filename convention.
// The first token optionally carries a hyphen-separated standard/part pair
// ("ISA95-Part3" yields part "Part 3"); counting that pair as two tokens, the
// 5th token is the department and the 6th, lower-cased, the language
// ("ISA95-Part3_2023_v2_QA_cs" yields department "QA", language "cs").
// Absent tokens keep their defaults.
func ExtractFromFilename(fileName string) Metadata {
	meta := Metadata{
		Standard:   Standard,
		Part:       DefaultPart,
		Department: DefaultDepartment,
		Language:   DefaultLanguage,
	}
	tokens := strings.Split(stripExtension(fileName), "_")
	if len(tokens) > 0 && strings.Contains(tokens[0], "-") {
		_, part, _ := strings.Cut(tokens[0], "-")
		meta.Part = strings.TrimSpace(strings.Replace(part, "Part", "Part ", 1))
	}
	if len(tokens) > 3 {
		meta.Department = tokens[3]
	}
	if len(tokens) > 4 {
		meta.Language = strings.ToLower(tokens[4])
	}
	return meta
}

// InferRoles returns the advisory role tags for a department.
func InferRoles(department string) []string {
	if roles, ok := roleMap[department]; ok {
		return append([]string(nil), roles...)
	}
	return []string{"user"}
}

// InferLocation collects Site/Area/Line-prefixed tokens from the filename in
// their original order, regardless of position. An input without location
// tokens yields an empty hierarchy and an empty path.
func InferLocation(fileName string) Location {
	hierarchy := []string{}
	for _, token := range strings.Split(stripExtension(fileName), "_") {
		if strings.HasPrefix(token, "Site") || strings.HasPrefix(token, "Area") || strings.HasPrefix(token, "Line") {
			hierarchy = append(hierarchy, token)
		}
	}
	return Location{
		Hierarchy:  hierarchy,
		CustomPath: strings.Join(hierarchy, "/"),
	}
}
