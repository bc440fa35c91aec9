// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// RibbonVertexShader extrudes ribbon vertices to a constant pixel width.
//
//go:embed ribbon.vert
var RibbonVertexShader string

// RibbonFragmentShader shades the ribbon: edge antialiasing, arrows and border.
//
//go:embed ribbon.frag
var RibbonFragmentShader string

// LineVertexShader is the vertex shader for debug lines.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the fragment shader for debug lines.
//
//go:embed line.frag
var LineFragmentShader string
