// Package asset reads and writes gradient files.
//
// A gradient file stores the stop list and the output size so that loading
// it and evaluating reproduces the same pixels as before saving. The layout
// matches the .regradient JSON files written by the Unity editor tool:
//
//	{
//	    "Nodes": [
//	        {"Color": {"r": 1, "g": 1, "b": 1, "a": 1}, "Percent": 0, "ID": 1},
//	        {"Color": {"r": 0, "g": 0, "b": 0, "a": 1}, "Percent": 1, "ID": 2}
//	    ],
//	    "Size": {"x": 256, "y": 64}
//	}
//
// The same record can also be stored as TOML or YAML; the format is chosen
// from the file extension.
package asset
