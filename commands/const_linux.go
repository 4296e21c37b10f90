package commands

const (
	_etc = "/usr/local/etc/uhppoted"
	_var = "/usr/local/var/uhppoted"

	DEFAULT_WORKDIR     = _var + "/reagents"
	DEFAULT_CREDENTIALS = _etc + "/reagents/.google/credentials.json"
)
