// Package plugins loads native passy plugins and calls into them.
//
// # Layout
//
// Each plugin is a directory under <appdata>/plugins whose name is the
// plugin id:
//
//	plugins/notes/manifest.json
//	plugins/notes/libback.so        (or the file named by "back")
//	plugins/notes/icon.png          (optional, named by "icon")
//
// manifest.json:
//
//	{"name": "Notes", "author": "someone", "icon": "icon.png",
//	 "back": "libnotes.so", "commands": ["list", "sync"]}
//
// # Native Interface
//
// A plugin library exports one C function per command, named after the
// command with the "_external" suffix:
//
//	const char *sync_external(const char *data, const char *states);
//
// data is the caller's JSON payload, passed through untouched. states is a
// JSON array of strings holding host values the plugin cannot discover on
// its own, such as the appdata path. Both are NUL-terminated UTF-8 owned by
// the host for the duration of the call.
//
// The returned string is allocated by the plugin. The host copies it and
// then hands the pointer back to the plugin's own
//
//	void passy_free(char *ptr);
//
// so memory is always released by the allocator that produced it. A library
// without passy_free is refused at load time.
//
// A result starting with "err:" is a failure whose detail is the rest of
// the string. Anything else is the success payload.
//
// # Lifecycle
//
// Loader.LoadAll builds a fresh Registry from the plugins directory. After
// a plugin loads, its optional on_load command is called with the plugin id
// and its directory; whatever it returns is ignored. Plugins are never
// unloaded.
//
// Calls are synchronous and have no timeout. Native code cannot be
// interrupted, so a plugin that hangs blocks its caller.
package plugins
