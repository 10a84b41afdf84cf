// Package audit records what was done to a passy installation.
//
// Vault and plugin operations append one JSON object per line to
// <appdata>/audit.jsonl:
//
//	{"id":"6f1c...","ts":"2026-10-18T09:12:44.120391Z","user":"alice","op":"update","path":"work/github","ok":true}
//
// Entries name the entry path or plugin command involved, never attribute
// values or plugin payloads.
//
// Logging is best-effort. A Trail that cannot write drops the entry; an
// operation never fails because its audit line could not be recorded.
package audit
