package model

import "strings"

// Requirement is an institutional general-education requirement code a course
// may satisfy. The set of values is static reference data.
type Requirement string

const (
	ReqPLM Requirement = "PLM"
	ReqAEX Requirement = "AEX"
	ReqHCO Requirement = "HCO"
	ReqSI1 Requirement = "SI1"
	ReqSO1 Requirement = "SO1"
	ReqSI2 Requirement = "SI2"
	ReqSO2 Requirement = "SO2"
	ReqQR1 Requirement = "QR1"
	ReqQR2 Requirement = "QR2"
	ReqIIC Requirement = "IIC"
	ReqGCI Requirement = "GCI"
	ReqETR Requirement = "ETR"
	ReqFYW Requirement = "FYW"
	ReqWRI Requirement = "WRI"
	ReqWIN Requirement = "WIN"
	ReqOSC Requirement = "OSC"
	ReqDME Requirement = "DME"
	ReqCRT Requirement = "CRT"
	ReqRIL Requirement = "RIL"
	ReqTWC Requirement = "TWC"
	ReqCRI Requirement = "CRI"
)

// RequirementInfo carries the reference data attached to a requirement code:
// the human-readable name shown on course pages, the grouping category, and how
// many satisfying courses are needed to fulfill the requirement.
type RequirementInfo struct {
	Code     Requirement
	Name     string
	Category string
	Count    int
}

const (
	categoryInterpretation = "PHILOSOPHICAL, AESTHETIC, AND HISTORICAL INTERPRETATION"
	categoryInquiry        = "SCIENTIFIC AND SOCIAL INQUIRY"
	categoryQuantitative   = "QUANTITATIVE REASONING"
	categoryDiversity      = "DIVERSITY, CIVIC ENGAGEMENT, AND GLOBAL CITIZENSHIP"
	categoryCommunication  = "COMMUNICATION"
	categoryToolkit        = "INTELLECTUAL TOOLKIT"
)

var requirementTable = []RequirementInfo{
	{ReqPLM, "Philosophical Inquiry and Life's Meanings", categoryInterpretation, 1},
	{ReqAEX, "Aesthetic Exploration", categoryInterpretation, 1},
	{ReqHCO, "Historical Consciousness", categoryInterpretation, 1},
	{ReqSI1, "Scientific Inquiry I", categoryInquiry, 1},
	{ReqSO1, "Social Inquiry I", categoryInquiry, 1},
	{ReqSI2, "Scientific Inquiry II", categoryInquiry, 1},
	{ReqSO2, "Social Inquiry II", categoryInquiry, 1},
	{ReqQR1, "Quantitative Reasoning I", categoryQuantitative, 1},
	{ReqQR2, "Quantitative Reasoning II", categoryQuantitative, 1},
	{ReqIIC, "The Individual in Community", categoryDiversity, 1},
	{ReqGCI, "Global Citizenship and Intercultural Literacy", categoryDiversity, 2},
	{ReqETR, "Ethical Reasoning", categoryDiversity, 1},
	{ReqFYW, "First-Year Writing Seminar", categoryCommunication, 1},
	{ReqWRI, "Writing, Research, and Inquiry", categoryCommunication, 1},
	{ReqWIN, "Writing-Intensive Course", categoryCommunication, 2},
	{ReqOSC, "Oral and/or Signed Communication", categoryCommunication, 1},
	{ReqDME, "Digital/Multimedia Expression", categoryCommunication, 1},
	{ReqCRT, "Critical Thinking", categoryToolkit, 2},
	{ReqRIL, "Research and Information Literacy", categoryToolkit, 2},
	{ReqTWC, "Teamwork/Collaboration", categoryToolkit, 2},
	{ReqCRI, "Creativity/Innovation", categoryToolkit, 2},
}

var requirementByCode = func() map[Requirement]RequirementInfo {
	m := make(map[Requirement]RequirementInfo, len(requirementTable))
	for _, info := range requirementTable {
		m[info.Code] = info
	}
	return m
}()

// AllRequirements returns the full requirement reference table in display order.
func AllRequirements() []RequirementInfo {
	out := make([]RequirementInfo, len(requirementTable))
	copy(out, requirementTable)
	return out
}

// Info returns the reference data for r. The second result is false for codes
// outside the known set.
func (r Requirement) Info() (RequirementInfo, bool) {
	info, ok := requirementByCode[r]
	return info, ok
}

// Name returns r's display name, or the empty string for unknown codes.
func (r Requirement) Name() string {
	info, ok := requirementByCode[r]
	if !ok {
		return ""
	}
	return info.Name
}

// ParseRequirement resolves a requirement code string, e.g. "WIN".
func ParseRequirement(code string) (Requirement, bool) {
	r := Requirement(strings.ToUpper(strings.TrimSpace(code)))
	_, ok := requirementByCode[r]
	return r, ok
}

// RequirementByName maps a display name scraped from a course page to its
// requirement code. Matching is a case-insensitive exact comparison; names that
// match nothing report ok=false and are dropped by the caller.
func RequirementByName(name string) (Requirement, bool) {
	for _, info := range requirementTable {
		if strings.EqualFold(info.Name, name) {
			return info.Code, true
		}
	}
	return "", false
}
