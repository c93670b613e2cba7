package evaluator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ppoeval/internal/domain"
)

// SystemInstruction is the persona sent alongside every evaluation prompt.
const SystemInstruction = "Eres un experto pedagógico de la Dirección de Educación No Formal del GCABA. " +
	"Evalúas Proyectos Participativos Organizativos (PPO) comparándolos estrictamente con la normativa vigente " +
	"y respondes siempre en español."

// NoPrecedentLine replaces the precedent block when no precedent was supplied.
const NoPrecedentLine = "No se proporcionó documento de antecedente."

// TruncationMarker is appended to a reference cut to the configured size.
const TruncationMarker = "[... texto truncado ...]"

// ReportSections are the report headings the model must produce, in order.
var ReportSections = []string{
	"Resumen ejecutivo",
	"Análisis de coherencia interna",
	"Análisis de cumplimiento normativo",
	"Fortalezas y debilidades",
	"Sugerencias de mejora",
	"Dictamen final",
}

// AllowedTags is the HTML subset the report may use.
var AllowedTags = []string{"h2", "h3", "p", "ul", "ol", "li", "strong", "em"}

// PromptInput holds everything the evaluation prompt is built from.
type PromptInput struct {
	References    domain.References
	PPOName       string
	PPOText       string
	HasPrecedent  bool
	PrecedentName string
	PrecedentText string
	Scores        domain.EvaluationScores
	// MaxReferenceChars cuts each reference to this many characters; 0 keeps them whole.
	MaxReferenceChars int
}

// BuildEvaluationPrompt assembles the evaluation prompt. Sections appear in a
// fixed order: persona, references 1-5, scores, precedent, the PPO itself and
// the output instructions.
func BuildEvaluationPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString(SystemInstruction)
	b.WriteString("\nTu tarea es evaluar el siguiente Proyecto Participativo Organizativo (PPO).\n\n")

	b.WriteString("DOCUMENTOS DE REFERENCIA (Úsalos para comparar):\n")
	for i, role := range domain.AllReferenceRoles {
		text := truncateReference(in.References[role], in.MaxReferenceChars)
		fmt.Fprintf(&b, "%d. %s:\n%s\n\n", i+1, role.Label(), text)
	}

	b.WriteString("CRITERIOS DEL EVALUADOR (Escala 1-10):\n")
	fmt.Fprintf(&b, "- Claridad de Objetivos: %s\n", in.Scores.Clarity)
	fmt.Fprintf(&b, "- Viabilidad: %s\n", in.Scores.Feasibility)
	fmt.Fprintf(&b, "- Marco Normativo: %s\n\n", in.Scores.Compliance)

	b.WriteString("ANTECEDENTE:\n")
	if in.HasPrecedent {
		if in.PrecedentName != "" {
			fmt.Fprintf(&b, "Documento: %s\n", in.PrecedentName)
		}
		b.WriteString(in.PrecedentText)
		b.WriteString("\n\n")
	} else {
		b.WriteString(NoPrecedentLine)
		b.WriteString("\n\n")
	}

	b.WriteString("PROYECTO A EVALUAR:\n")
	if in.PPOName != "" {
		fmt.Fprintf(&b, "Documento: %s\n", in.PPOName)
	}
	b.WriteString(in.PPOText)
	b.WriteString("\n\n")

	b.WriteString("TAREA:\n")
	b.WriteString("Genera un informe técnico basado estrictamente en la normativa comparada, con las siguientes secciones en este orden:\n")
	for i, section := range ReportSections {
		fmt.Fprintf(&b, "%d. %s\n", i+1, section)
	}
	b.WriteString("\nFORMATO:\n")
	b.WriteString("Devuelve el informe en HTML usando únicamente las etiquetas ")
	tags := make([]string, len(AllowedTags))
	for i, tag := range AllowedTags {
		tags[i] = "<" + tag + ">"
	}
	b.WriteString(strings.Join(tags, " "))
	b.WriteString(". No incluyas <script>, estilos, atributos ni ninguna otra etiqueta.\n")

	return b.String()
}

func truncateReference(text string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars]) + "\n" + TruncationMarker
}
