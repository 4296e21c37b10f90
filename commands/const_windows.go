package commands

const (
	_etc = `C:\ProgramData\uhppoted`
	_var = `C:\ProgramData\uhppoted`

	DEFAULT_WORKDIR     = _var + `\reagents`
	DEFAULT_CREDENTIALS = _etc + `\reagents\.google\credentials.json`
)
