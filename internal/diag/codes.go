package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// config-level (checked first: the project cannot even be assembled)
	CfgInfo          Code = 1000
	CfgUnreadable    Code = 1001
	CfgInvalidTOML   Code = 1002
	CfgMissingRoot   Code = 1003
	CfgEmptyInclude  Code = 1004
	CfgNoSourceFiles Code = 1005

	// syntactic (source fails to scan/parse)
	SynInfo               Code = 2000
	SynUnterminatedString Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynExpectIdent        Code = 2003
	SynExpectModulePath   Code = 2004
	SynMalformedImport    Code = 2005
	SynMalformedDecorator Code = 2006

	// structural (semantic/framework-level inconsistency)
	SemInfo            Code = 3000
	SemDuplicateClass  Code = 3001
	SemDuplicateImport Code = 3002
	SemSelfInheritance Code = 3003
)

// ID returns a short stable identifier for the code, e.g. "SYN2005".
func (c Code) ID() string {
	switch {
	case c >= 3000:
		return fmt.Sprintf("SEM%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("SYN%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("CFG%04d", uint16(c))
	default:
		return fmt.Sprintf("UNK%04d", uint16(c))
	}
}

func (c Code) String() string {
	return c.ID()
}

// Category partitions codes the way the project boundary checks them:
// config, then syntactic, then structural.
type Category uint8

const (
	CatUnknown Category = iota
	CatConfig
	CatSyntactic
	CatStructural
)

// CategoryOf reports which partition the code belongs to.
func CategoryOf(c Code) Category {
	switch {
	case c >= 3000:
		return CatStructural
	case c >= 2000:
		return CatSyntactic
	case c >= 1000:
		return CatConfig
	default:
		return CatUnknown
	}
}

func (cat Category) String() string {
	switch cat {
	case CatConfig:
		return "config"
	case CatSyntactic:
		return "syntactic"
	case CatStructural:
		return "structural"
	}
	return "unknown"
}
