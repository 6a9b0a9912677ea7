// Package quote contiene el núcleo puro de cotizaciones: asignación de folio y
// vigencia, aritmética de partidas y máquina de estados del flujo de trabajo.
// Nada aquí toca la base de datos ni lee el reloj ambiente: el tiempo de
// creación siempre se inyecta como parámetro.
package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/bitmx/cotizador-api/internal/domain"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
)

// folioPrefix constante de todos los folios.
const folioPrefix = "BIT"

// validUntilMinGap si el fin de mes está a menos de estos días de la creación,
// la vigencia salta al día 15 del mes siguiente.
const validUntilMinGap = 5

// Folio construye el identificador legible de una cotización:
// BIT-<iniciales>-<YYMMDD>-<consecutivo a 5 dígitos>.
// Las iniciales son la primera letra del nombre y del apellido del vendedor
// asignado, en mayúsculas. Nombre o apellido vacíos son una precondición
// violada: ninguna cotización puede existir sin folio derivable.
func Folio(firstName, lastName string, createdAt time.Time, seq int64) (string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return "", domain.ErrMissingNameParts
	}
	initials := strings.ToUpper(string([]rune(firstName)[0]) + string([]rune(lastName)[0]))
	return fmt.Sprintf("%s-%s-%s-%05d", folioPrefix, initials, createdAt.Format("060102"), seq), nil
}

// ValidUntil calcula la fecha de vigencia de una cotización creada en createdAt:
// el último día del mes de creación, salvo que ese último día quede a menos de
// 5 días de la creación, en cuyo caso la vigencia es el día 15 del mes
// siguiente (diciembre rueda al enero del año siguiente).
func ValidUntil(createdAt time.Time) time.Time {
	year, month, day := createdAt.Date()
	// Día cero del mes siguiente = último día del mes actual.
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, createdAt.Location())
	if lastDay.Day()-day < validUntilMinGap {
		return time.Date(year, month+1, 15, 0, 0, 0, 0, createdAt.Location())
	}
	return lastDay
}

// AssignIdentity fija folio y vigencia en la cotización si aún no los tiene.
// Es idempotente: una segunda invocación no cambia nada y regresa false.
// Requiere que Seq ya exista (la identidad numérica la asigna la primera
// inserción); la escritura a base de datos corre por cuenta del caller.
func AssignIdentity(q *entity.Quote, assignee *entity.User, createdAt time.Time) (bool, error) {
	if q.HasIdentity() {
		return false, nil
	}
	if q.Seq <= 0 {
		return false, fmt.Errorf("asignar identidad: %w", domain.ErrInvalidInput)
	}
	folio, err := Folio(assignee.FirstName, assignee.LastName, createdAt, q.Seq)
	if err != nil {
		return false, err
	}
	until := ValidUntil(createdAt)
	q.QuoteID = folio
	q.ValidUntil = &until
	return true, nil
}
