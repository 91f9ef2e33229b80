package domain

type CommandKind string

const (
	CommandNone           CommandKind = ""
	CommandReturnContract CommandKind = "return_contract"
	CommandFinishContract CommandKind = "finish_contract"
	CommandRunCode        CommandKind = "run_code"
	CommandWriteFile      CommandKind = "write_file"
)

// Command is the parsed form of an action string. Filename and Content are
// only populated for the file commands; missing arguments stay empty and are
// rejected at dispatch time.
type Command struct {
	Kind     CommandKind
	Token    string
	Filename string
	Content  string
	Raw      string
}

func (c Command) Recognized() bool {
	return c.Kind != CommandNone
}
