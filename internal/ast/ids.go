package ast

type (
	FileID   uint32
	ClassID  uint32
	ImportID uint32
)

const (
	NoFileID   FileID   = 0
	NoClassID  ClassID  = 0
	NoImportID ImportID = 0
)

func (id FileID) IsValid() bool   { return id != NoFileID }
func (id ClassID) IsValid() bool  { return id != NoClassID }
func (id ImportID) IsValid() bool { return id != NoImportID }
