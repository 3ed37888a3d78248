package analyzer

import (
	"fmt"

	"bizscout-backend/lib/listing"
)

const systemPrompt = "Vous êtes un expert analyste d'affaires."

// BuildPrompt embeds every record field verbatim and pins the reply
// format the parser expects: a `Note: <int>` line followed by an
// explanation section.
func BuildPrompt(record listing.Record) string {
	return fmt.Sprintf(`Évaluez le potentiel d'acquisition de l'entreprise suivante. Fournissez une note de 0 à 100 et une explication détaillée en HTML :

  Description : %s
  Titre : %s
  Localisation : %s
  Prix : %s
  Chiffre d'affaires : %s
  Employés : %s

  Format de réponse attendu :
  Note: [0-100]
  <h2><strong>Explication:</strong></h2>
    <div>
      [explication détaillée ici]
    </div>`,
		record.Description,
		record.Title,
		record.Location,
		record.Price,
		record.Revenue,
		record.Employees,
	)
}
