package contracts

// IPicker lets the user choose a file or a folder interactively.
type IPicker interface {
	SelectFile(startDir string) (string, error)
	SelectDirectory(startDir string) (string, error)
}
