package imports

// SpreadsheetReader lee la primera hoja de un libro como filas de celdas.
type SpreadsheetReader interface {
	ReadRows(content []byte) ([][]string, error)
}
