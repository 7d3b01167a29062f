package loaders

// LogPath returns the loader's runtime log relative to the profile root
func (d Descriptor) LogPath() (string, bool) {
	switch d.Variant {
	case BepInEx, BepisLoader:
		return "BepInEx/LogOutput.log", true
	case MelonLoader:
		return "MelonLoader/Latest.log", true
	case GDWeave:
		return "GDWeave/GDWeave.log", true
	case Lovely:
		return "mods/lovely/log", true
	case Northstar, Shimloader, ReturnOfModding:
		return "", false
	}
	return "", false
}

// ConfigDir returns the directory holding mod configuration, relative to
// the profile root. "." means the profile root itself.
func (d Descriptor) ConfigDir() string {
	switch d.Variant {
	case BepInEx, BepisLoader:
		return "BepInEx/config"
	case GDWeave:
		return "GDWeave/configs"
	case ReturnOfModding:
		return "ReturnOfModding/config"
	case MelonLoader, Northstar, Shimloader, Lovely:
		return "."
	}
	return "."
}

// ProxyLibrary returns the name of the native library the loader uses to
// hook the game. Built-in names carry no extension; ReturnOfModding reports
// its first declared file as is.
func (d Descriptor) ProxyLibrary() (string, bool) {
	switch d.Variant {
	case BepInEx:
		return "winhttp", true
	case GDWeave:
		return "winmm", true
	case ReturnOfModding:
		// by convention the first declared file
		if len(d.FixedFiles) == 0 {
			return "", false
		}
		return d.FixedFiles[0], true
	case BepisLoader, MelonLoader, Northstar, Shimloader, Lovely:
		return "", false
	}
	return "", false
}
