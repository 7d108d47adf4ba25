package prompt

import "refeval/internal/domain"

var descriptions = map[domain.RefactoringType]string{
	domain.ExtractMethod: "This refactoring occurs when a segment of code is moved from an existing method (the `original_method`) and placed into a new, separate method (the `new_method`). " +
		"The `original_method` is then modified to include a function call to this `new_method` in place of the removed code block.",
	domain.InlineMethod: "This refactoring is the reverse of 'Extract Method.' It occurs when a method's call (the `caller`) is replaced by the *entire body* of the method being called (the `callee`). " +
		"This is done to eliminate the indirection of the method call. Often, the `callee` method definition is then removed if it's no longer used.",
	domain.RenameVariable: "This refactoring involves changing the name of an identifier (such as a local variable, a function parameter, or a class field) to a new name. " +
		"The change must be applied consistently across its entire scope of use. The surrounding code logic and structure remain identical.",
	domain.ExtractVariable: "This refactoring involves taking a complex expression that is part of a larger statement and assigning it to a new, temporary local variable. " +
		"This new variable, which usually has a descriptive name, is then used in the original statement, making the code easier to read and debug.",
	domain.InlineVariable: "This refactoring is the reverse of 'Extract Variable'. It occurs when a variable, often a temporary one, is replaced by the full expression it holds. " +
		"The original variable definition is then removed if it is no longer needed.",
	domain.RenameMethod: "This refactoring changes the name of a method to a new name that better expresses its purpose. " +
		"The method body is unchanged, and every call site is updated to use the new name.",
}

// Description returns the defining characteristics used in SARP prompts.
func Description(rType domain.RefactoringType) (string, bool) {
	d, ok := descriptions[rType]
	return d, ok
}
