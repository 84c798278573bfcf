package analysis

import (
	"strings"

	"golang.org/x/text/language"
)

// Templates holds the message formats of one locale. Every format receives
// the competence label, its normalized score and the radar scale, in that
// order.
type Templates struct {
	CauseExcellent  string
	CauseGood       string
	CauseDeveloping string

	EffectExcellent           string
	EffectGoodWeakBase        string
	EffectGoodSolidBase       string
	EffectDevelopingWeakBase  string
	EffectDevelopingSolidBase string

	// InsufficientData receives the competence key only.
	InsufficientData string
}

// English message set.
var English = Templates{
	CauseExcellent:  "Excellent level in %s (%.1f/%g)! This foundational skill lifts the skills that depend on it. It is a strong lever for progress.",
	CauseGood:       "Good level in %s (%.1f/%g). This foundational skill can still be strengthened to improve the skills that depend on it.",
	CauseDeveloping: "%s is still developing (%.1f/%g). It is a key skill to work on because it directly influences other areas of learning.",

	EffectExcellent:           "Excellent level in %s (%.1f/%g)! This skill benefits from strong foundations in the areas that influence it.",
	EffectGoodWeakBase:        "Fair level in %s (%.1f/%g), which could improve by reinforcing the foundational skills behind it.",
	EffectGoodSolidBase:       "Good level in %s (%.1f/%g). The foundational skills are solid, keep it up!",
	EffectDevelopingWeakBase:  "%s is still developing (%.1f/%g). Working on the foundational skills will help improve it.",
	EffectDevelopingSolidBase: "%s is progressing (%.1f/%g). The foundations are good, this skill itself needs more practice.",

	InsufficientData: "Not enough data to analyse %q yet.",
}

// French message set.
var French = Templates{
	CauseExcellent:  "Excellent niveau en %s (%.1f/%g) ! Cette compétence de base influence positivement les autres domaines. C'est un levier puissant pour progresser.",
	CauseGood:       "Bon niveau en %s (%.1f/%g). Cette compétence fondamentale peut encore être renforcée pour améliorer les compétences qui en dépendent.",
	CauseDeveloping: "Niveau en développement pour %s (%.1f/%g). C'est une compétence clé à travailler car elle influence directement d'autres domaines d'apprentissage.",

	EffectExcellent:           "Excellent niveau en %s (%.1f/%g) ! Cette compétence bénéficie de bonnes bases dans les domaines qui l'influencent.",
	EffectGoodWeakBase:        "Niveau correct en %s (%.1f/%g), mais pourrait être amélioré en renforçant les compétences de base qui l'influencent.",
	EffectGoodSolidBase:       "Bon niveau en %s (%.1f/%g). Les compétences de base sont solides, continuez sur cette lancée !",
	EffectDevelopingWeakBase:  "Niveau en développement pour %s (%.1f/%g). Le travail sur les compétences de base aidera à améliorer cette compétence.",
	EffectDevelopingSolidBase: "Niveau en progression pour %s (%.1f/%g). Malgré de bonnes bases, cette compétence nécessite plus de pratique.",

	InsufficientData: "Pas assez de données pour analyser %q.",
}

var frenchBase, _ = language.French.Base()

// TemplatesFor returns the message set for a locale such as "fr" or
// "fr-FR". Unknown locales get English.
func TemplatesFor(locale string) Templates {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	if err != nil {
		return English
	}
	if base, _ := tag.Base(); base == frenchBase {
		return French
	}
	return English
}
