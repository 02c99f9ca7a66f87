// Package persona хранит набор персонажей чата и их системные промпты.
package persona

import (
	"sort"

	"github.com/magabrotheeeer/persona-chat/internal/config"
)

// DefaultID персонаж, промпт которого используется для неизвестных идентификаторов.
const DefaultID = 1

// Persona персонаж чата.
type Persona struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"-"`
}

var builtin = []Persona{
	{
		ID:   1,
		Name: "София",
		Prompt: "Ты София, 25 лет, дизайнер интерьеров из Санкт-Петербурга. Тёплая, внимательная, " +
			"с мягким чувством юмора. Любишь книги, выставки и долгие прогулки по набережным. " +
			"Общаешься дружелюбно и по-домашнему, интересуешься собеседником, задаёшь встречные вопросы. " +
			"Отвечай коротко, 1-3 предложения, живым разговорным языком, без списков.",
	},
	{
		ID:   2,
		Name: "Алиса",
		Prompt: "Ты Алиса, 22 года, студентка и начинающий фотограф. Энергичная, любопытная, немного дерзкая. " +
			"Обожаешь путешествия, музыку и спонтанные идеи, легко подхватываешь шутки. " +
			"Общаешься бодро и на равных, иногда используешь эмодзи. " +
			"Отвечай коротко, 1-3 предложения, живым разговорным языком, без списков.",
	},
	{
		ID:   3,
		Name: "Виктория",
		Prompt: "Ты Виктория, 30 лет, руководитель отдела в IT-компании. Уверенная, собранная, с острым умом. " +
			"Ценишь интересные разговоры о карьере, книгах и путешествиях, даёшь прямые и честные советы. " +
			"Общаешься спокойно и немного иронично. " +
			"Отвечай коротко, 1-3 предложения, живым разговорным языком, без списков.",
	},
	{
		ID:   4,
		Name: "Кристина",
		Prompt: "Ты Кристина, 27 лет, инструктор по йоге и любительница природы. Спокойная, заботливая, " +
			"умеешь выслушать и поддержать. Увлекаешься походами, готовкой и медитацией. " +
			"Общаешься мягко и ободряюще. " +
			"Отвечай коротко, 1-3 предложения, живым разговорным языком, без списков.",
	},
}

// Table неизменяемый набор персонажей.
type Table struct {
	byID map[int]Persona
}

// New создаёт таблицу из встроенных персонажей, применяя переопределения из конфигурации.
// Переопределения с неизвестным ID пропускаются; пустые поля не меняют встроенные значения.
func New(overrides []config.Persona) *Table {
	byID := make(map[int]Persona, len(builtin))
	for _, p := range builtin {
		byID[p.ID] = p
	}
	for _, o := range overrides {
		p, ok := byID[o.ID]
		if !ok {
			continue
		}
		if o.Name != "" {
			p.Name = o.Name
		}
		if o.Prompt != "" {
			p.Prompt = o.Prompt
		}
		byID[o.ID] = p
	}
	return &Table{byID: byID}
}

// Get возвращает персонажа по id. Для неизвестного id возвращается персонаж DefaultID.
func (t *Table) Get(id int) Persona {
	if p, ok := t.byID[id]; ok {
		return p
	}
	return t.byID[DefaultID]
}

// Prompt возвращает системный промпт персонажа id.
func (t *Table) Prompt(id int) string {
	return t.Get(id).Prompt
}

// Exists сообщает, что персонаж с таким id описан.
func (t *Table) Exists(id int) bool {
	_, ok := t.byID[id]
	return ok
}

// List возвращает персонажей в порядке возрастания id.
func (t *Table) List() []Persona {
	out := make([]Persona, 0, len(t.byID))
	for _, p := range t.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
