package mapstore

// legacyNames maps diagnostic array names to the names older downstream
// readers expect. Anything not listed is stored unchanged.
var legacyNames = map[string]string{
	"g_yy": "g_22",
	"gyy":  "g22",
	"gxx":  "g11",
	"gxz":  "g13",
	"gzz":  "g33",
	"g_xx": "g_11",
	"g_xz": "g_13",
	"g_zz": "g_33",
}

// storedName applies the legacy name translation when requested.
func storedName(name string, legacy bool) string {
	if !legacy {
		return name
	}
	if mapped, ok := legacyNames[name]; ok {
		return mapped
	}
	return name
}
