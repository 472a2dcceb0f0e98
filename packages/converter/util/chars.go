package util

// Character code constants
const (
	CharEOF      = 0
	CharTAB      = 9
	CharLF       = 10
	CharVTAB     = 11
	CharFF       = 12
	CharCR       = 13
	CharSPACE    = 32
	CharBANG     = 33
	CharDQ       = 34
	CharSQ       = 39
	CharCOMMA    = 44
	CharMINUS    = 45
	CharPERIOD   = 46
	CharSLASH    = 47
	CharCOLON    = 58
	CharLT       = 60
	CharEQ       = 61
	CharGT       = 62
	CharQUESTION = 63

	Char0 = 48
	Char9 = 57

	CharA = 65
	CharZ = 90

	CharLBRACKET   = 91
	CharBACKSLASH  = 92
	CharRBRACKET   = 93
	CharUnderscore = 95

	CharLowerA = 97
	CharLowerZ = 122

	CharLBRACE = 123
	CharRBRACE = 125
	CharNBSP   = 160
)
