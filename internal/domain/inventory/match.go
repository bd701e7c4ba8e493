package inventory

import "golang.org/x/text/cases"

// Fold pliega mayúsculas/minúsculas con las reglas Unicode (é/É, ß/SS...).
// Usado para los filtros de nombre "contiene" en los repositorios.
func Fold(s string) string {
	return cases.Fold().String(s)
}
