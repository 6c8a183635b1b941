package reading

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the instruction sent to the model. It is pure: the
// same request always yields the same text.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Je bent een educatieve assistent voor het Nederlandse basisonderwijs. ")
	b.WriteString("Maak een leestekst met meerkeuzevragen voor begrijpend lezen.\n\n")

	b.WriteString("Parameters:\n")
	fmt.Fprintf(&b, "- Groepsniveau: %s\n", req.Grade)
	fmt.Fprintf(&b, "- Lengte van de tekst: %s (%s)\n", req.Length.Label(), lengthGuide())
	fmt.Fprintf(&b, "- Aantal vragen: %d\n", req.QuestionCount)
	fmt.Fprintf(&b, "- Onderwerp: %s\n\n", req.Topic)

	b.WriteString("Instructies:\n")
	b.WriteString("1. Schrijf de tekst in het Nederlands over het opgegeven onderwerp. ")
	b.WriteString("Stem woordenschat, zinsbouw en inhoud af op het groepsniveau en houd je aan de gevraagde lengte. ")
	b.WriteString("Verdeel de tekst in logische alinea's, gescheiden door een lege regel.\n")
	b.WriteString("2. Geef de tekst een korte, pakkende titel.\n")
	fmt.Fprintf(&b, "3. Maak precies %d meerkeuzevragen over de tekst.\n", req.QuestionCount)
	b.WriteString("4. Elke vraag toetst begrijpend lezen en heeft vier antwoordopties (A, B, C en D). ")
	b.WriteString("Precies één optie is juist; de andere opties zijn fout maar wel aannemelijk.\n")
	b.WriteString("5. Geef bij elke vraag de letter van het juiste antwoord (A, B, C of D).\n\n")

	b.WriteString("Lever het resultaat uitsluitend als een JSON-object dat voldoet aan het meegegeven schema.")

	return b.String()
}

// lengthGuide lists every bucket with its word range, e.g.
// "kort ≈ 100-150 woorden, middel ≈ 150-250 woorden, lang ≈ 250-400 woorden".
func lengthGuide() string {
	parts := make([]string, 0, 3)
	for _, l := range Lengths() {
		lo, hi := l.WordRange()
		parts = append(parts, fmt.Sprintf("%s ≈ %d-%d woorden", l.Label(), lo, hi))
	}
	return strings.Join(parts, ", ")
}
