package genai

import "fmt"

// DefaultTemplatePrompt instructs the model to redraw each reference
// keyframe as the color-coded generic character, cell for cell.
func DefaultTemplatePrompt(cols, rows int) string {
	return fmt.Sprintf(`The first image is a %dx%d grid of reference keyframes showing a subject in various poses.
The second image is a generic character made of colored body parts.

Create a %dx%d sprite sheet grid. For each cell:
1. Identify the pose and position of the main subject in the corresponding reference keyframe
2. Draw the generic character in that EXACT same pose and position
3. Match the limb positions precisely using the color-coded body parts:
   - Light blue = head
   - Orange = torso
   - Green = right arm, Purple = left arm
   - Yellow = right leg, Red = left leg

The output grid must have the same layout as the reference - each cell's pose must match the corresponding reference cell exactly.

Pixel art, Gameboy Advance style, pixel perfect, clean edges, no anti-aliasing, white background per cell.`,
		cols, rows, cols, rows)
}

// DefaultSheetPrompt instructs the model to render a specific character in
// the poses of a previously generated template grid.
func DefaultSheetPrompt(cols, rows int) string {
	return fmt.Sprintf(`The first image is a %dx%d keyframe template grid showing %d poses using colored body parts.
The second image is the character to render.

Generate a %dx%d sprite sheet grid with EXACTLY %d columns and %d rows.

CRITICAL: Each cell in your output must match the EXACT pose from the corresponding cell in the template:
- Row 1, Col 1 of output = pose from Row 1, Col 1 of template
- Row 1, Col 2 of output = pose from Row 1, Col 2 of template
- And so on for all %d cells.

The template uses color coding for body parts:
- Light blue = head position
- Orange = torso position
- Green = right arm, Purple = left arm
- Yellow = right leg, Red = left leg

Render the character in each pose matching the template exactly. Maintain the character's appearance (face, hair, clothing, colors) consistently across all frames.

Pixel art style, clean pixel edges, white background per cell.`,
		cols, rows, cols*rows, cols, rows, cols, rows, cols*rows)
}
