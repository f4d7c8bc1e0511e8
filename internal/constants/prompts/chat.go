// Package prompts renders retrieved menu items and the customer's
// question into the provider-ready prompt, per locale.
package prompts

import (
	"fmt"
	"strings"

	"github.com/cartamenu/carta-rag/internal/domains/product"
	"github.com/cartamenu/carta-rag/pkg/aiclient"
)

type Locale string

const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

// ParseLocale maps a request locale to a supported one, defaulting to
// Spanish.
func ParseLocale(s string) Locale {
	if strings.EqualFold(strings.TrimSpace(s), string(LocaleEN)) {
		return LocaleEN
	}
	return LocaleES
}

var systemPrompts = map[Locale]string{
	LocaleES: "Eres un asistente útil de un restaurante que ayuda a los clientes a encontrar productos en el menú. Responde en español de manera amigable y concisa.",
	LocaleEN: "You are a helpful restaurant assistant who helps customers find items on the menu. Respond in English in a friendly and concise way.",
}

var emptyAnswers = map[Locale]string{
	LocaleES: "Lo siento, no encontré productos relacionados con tu consulta en este menú. ¿Puedes reformular tu pregunta?",
	LocaleEN: "Sorry, I couldn't find any menu items related to your question. Could you rephrase it?",
}

var instructionFooters = map[Locale]string{
	LocaleES: `Instrucciones:
- Responde de manera amigable y natural
- Usa únicamente la información de los productos listados arriba
- Sé conciso pero útil
- Si los productos no son exactamente lo que busca, sugiere alternativas del menú
- Menciona características especiales (vegano, apto para celíacos) si son relevantes
- No inventes información que no esté en los productos listados

Respuesta:`,
	LocaleEN: `Instructions:
- Answer in a friendly, natural way
- Only use the information from the items listed above
- Be concise but helpful
- If the items are not exactly what the customer wants, suggest alternatives from the menu
- Mention special attributes (vegan, gluten-free) when relevant
- Never make up information that is not in the listed items

Answer:`,
}

// SystemPrompt returns the assistant role instruction for the locale.
func SystemPrompt(locale Locale) string {
	return systemPrompts[locale]
}

// EmptyAnswer is the canned reply when retrieval finds nothing.
func EmptyAnswer(locale Locale) string {
	return emptyAnswers[locale]
}

// DietaryTags localizes a product's dietary clauses.
func DietaryTags(p product.Product, locale Locale) []string {
	if locale == LocaleES {
		return p.DietaryTags()
	}
	var tags []string
	if p.IsVegan {
		tags = append(tags, "vegan")
	}
	if p.IsCeliac {
		tags = append(tags, "gluten-free")
	}
	return tags
}

// BuildMessages assembles the full role-tagged prompt: the locale's
// system instruction plus a user turn holding the numbered context
// block, the customer's question and the grounding instructions.
func BuildMessages(query string, items []product.Product, locale Locale) []aiclient.Message {
	return []aiclient.Message{
		{Role: aiclient.RoleSystem, Content: SystemPrompt(locale)},
		{Role: aiclient.RoleUser, Content: buildUserPrompt(query, items, locale)},
	}
}

func buildUserPrompt(query string, items []product.Product, locale Locale) string {
	var sb strings.Builder

	if locale == LocaleEN {
		sb.WriteString("Relevant menu items:\n\n")
	} else {
		sb.WriteString("Productos relevantes del menú:\n\n")
	}

	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s", i+1, item.Name)
		if item.Price > 0 {
			fmt.Fprintf(&sb, " - $%.2f", item.Price)
		}
		sb.WriteString("\n")
		if desc := strings.TrimSpace(item.Description); desc != "" {
			fmt.Fprintf(&sb, "   %s\n", desc)
		}
		if tags := DietaryTags(item, locale); len(tags) > 0 {
			fmt.Fprintf(&sb, "   (%s)\n", strings.Join(tags, ", "))
		}
		sb.WriteString("\n")
	}

	if locale == LocaleEN {
		fmt.Fprintf(&sb, "Customer question: %s\n\n", query)
	} else {
		fmt.Fprintf(&sb, "Pregunta del cliente: %s\n\n", query)
	}
	sb.WriteString(instructionFooters[locale])

	return sb.String()
}
