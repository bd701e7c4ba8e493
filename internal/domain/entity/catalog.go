package entity

// DefaultCategories natures de artículo usadas por el magasin.
var DefaultCategories = []string{
	"MATERIELS INFORMATIQUES",
	"FOURNITURES DE BUREAUX",
	"PRODUITS D'ENTRETIEN MENNAGER",
	"HABILLEMENTS",
	"MOBILIER DE BUREAU",
	"PARC AUTO",
	"CONFECTION DES FOURNITURS IMPRIMEES",
	"CONSOMMABLE INFORMATIQUE",
	"PRODUITS PHARMACEUTIQUES",
	"EAUX",
}

// DefaultRecipients services destinatarios de las afectaciones.
var DefaultRecipients = []string{
	"CBW Alger", "CBW Boumerdes", "CBW Laghouat", "CBW Bouira",
	"CBW Blida", "CBW Djelfa", "CBW Medea", "CBW Tizi ouzou",
	"Bureau Informatique", "Bureau Suivi", "Bureau Personnel",
	"Bureau Comptabilité", "Bureau Moyen", "secretariat",
	"Bureau Prevision", "Bureau Reglementation", "Bureau Formation",
	"Bureau Inspection",
	"Autres",
}

// Catalog listas configurables de categorías y destinatarios.
// La validación contra el catálogo es solo informativa: no rechaza valores libres.
type Catalog struct {
	Categories []string
	Recipients []string
}

// NewCatalog usa las listas por defecto cuando las recibidas están vacías.
func NewCatalog(categories, recipients []string) Catalog {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	if len(recipients) == 0 {
		recipients = DefaultRecipients
	}
	return Catalog{Categories: categories, Recipients: recipients}
}

// KnownCategory true si c está vacío o figura en el catálogo.
func (c Catalog) KnownCategory(category string) bool {
	return category == "" || contains(c.Categories, category)
}

// KnownRecipient true si r está vacío o figura en el catálogo.
func (c Catalog) KnownRecipient(recipient string) bool {
	return recipient == "" || contains(c.Recipients, recipient)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
