// Package agent defines the closed set of agent personas.
//
// A persona is a fixed block of instruction text steering the generation
// backend's behavior and tone. The set is a closed enumeration rather than
// a string-keyed map so that lookups are exhaustive matches: an unknown
// persona is rejected at the edge by [Parse] instead of surfacing as a
// missing-key failure mid-pipeline. Instruction text is program data, not
// user configuration, and lives here as Go constants.
package agent

import "fmt"

// Agent identifies one persona. The zero value is [Base].
type Agent string

// Conversational personas selectable per chat, plus the three internal
// operation agents (Summarize, Extract, Compress) used by the pipeline.
const (
	Base             Agent = "base"
	Summarize        Agent = "summarize"
	Extract          Agent = "extract"
	Compress         Agent = "compress"
	RecruitingMentor Agent = "recruitingMentor"
	BusinessCoach    Agent = "businessCoach"
	InfantMentor     Agent = "infantMentor"
	SecurityMentor   Agent = "securityMentor"
	LeadershipCoach  Agent = "leadershipCoach"
	ExecSpeak        Agent = "execSpeak"
	SalesMentor      Agent = "salesMentor"
	MigrationMentor  Agent = "migMentor"
	JargonTranslator Agent = "jargonTranslator"
)

// Conversational returns the personas a user may select for a chat.
// The internal operation agents are excluded.
func Conversational() []Agent {
	return []Agent{
		Base,
		RecruitingMentor,
		BusinessCoach,
		InfantMentor,
		SecurityMentor,
		LeadershipCoach,
		ExecSpeak,
		SalesMentor,
		MigrationMentor,
		JargonTranslator,
	}
}

// Parse validates a persona name from an untrusted source (API request,
// stored chat default). An empty string maps to [Base].
func Parse(s string) (Agent, error) {
	if s == "" {
		return Base, nil
	}
	a := Agent(s)
	switch a {
	case Base, Summarize, Extract, Compress,
		RecruitingMentor, BusinessCoach, InfantMentor, SecurityMentor,
		LeadershipCoach, ExecSpeak, SalesMentor, MigrationMentor,
		JargonTranslator:
		return a, nil
	}
	return Base, fmt.Errorf("unknown agent %q", s)
}

// DisplayName returns a human-readable label for the persona picker.
func (a Agent) DisplayName() string {
	switch a {
	case Base:
		return "Assistant"
	case Summarize:
		return "Summarizer"
	case Extract:
		return "Knowledge Extractor"
	case Compress:
		return "Chat Compressor"
	case RecruitingMentor:
		return "Recruiting Mentor"
	case BusinessCoach:
		return "Business Coach"
	case InfantMentor:
		return "Infant Guide"
	case SecurityMentor:
		return "Security Mentor"
	case LeadershipCoach:
		return "Leadership Coach"
	case ExecSpeak:
		return "ExecSpeak"
	case SalesMentor:
		return "Sales Mentor"
	case MigrationMentor:
		return "Migration Mentor"
	case JargonTranslator:
		return "Jargon Translator"
	}
	return string(a)
}

// Instructions returns the persona's static instruction text. The match
// is exhaustive over the enumeration; an Agent constructed outside this
// package falls back to the base instructions.
func (a Agent) Instructions() string {
	switch a {
	case Summarize:
		return summarizeInstructions
	case Extract:
		return extractInstructions
	case Compress:
		return compressInstructions
	case RecruitingMentor:
		return recruitingMentorInstructions
	case BusinessCoach:
		return businessCoachInstructions
	case InfantMentor:
		return infantMentorInstructions
	case SecurityMentor:
		return securityMentorInstructions
	case LeadershipCoach:
		return leadershipCoachInstructions
	case ExecSpeak:
		return execSpeakInstructions
	case SalesMentor:
		return salesMentorInstructions
	case MigrationMentor:
		return migrationMentorInstructions
	case JargonTranslator:
		return jargonTranslatorInstructions
	case Base:
		return baseInstructions
	}
	return baseInstructions
}
